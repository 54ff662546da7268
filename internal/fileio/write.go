package fileio

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriteFile writes content to a file, creating parent directories as
// needed. Overwrites go through a temp file and rename so a crashed
// write never leaves a half-written file behind.
func WriteFile(path, content string, appendMode bool) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}

	if parent := filepath.Dir(expanded); parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("create parent directories for %s: %w", expanded, err)
		}
	}

	if appendMode {
		file, err := os.OpenFile(expanded, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer file.Close()
		if _, err := file.WriteString(content); err != nil {
			return fmt.Errorf("append to %s: %w", expanded, err)
		}
		return nil
	}

	tmp := expanded + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write temp file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, expanded); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s to %s: %w", tmp, expanded, err)
	}
	return nil
}

// Touch creates each path or refreshes its timestamps, one record per
// path.
func Touch(paths []string) []OpResult {
	results := make([]OpResult, 0, len(paths))
	for _, path := range paths {
		if err := touchSingle(path); err != nil {
			status, exists := errorStatus(err)
			results = append(results, OpResult{Path: path, Status: status, Exists: exists})
			continue
		}
		results = append(results, OpResult{Path: path, Status: StatusOK, Exists: true})
	}
	return results
}

func touchSingle(path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}

	if _, err := os.Stat(expanded); err == nil {
		now := time.Now()
		return os.Chtimes(expanded, now, now)
	}

	if parent := filepath.Dir(expanded); parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("create parent directories for %s: %w", expanded, err)
		}
	}
	file, err := os.Create(expanded)
	if err != nil {
		return err
	}
	return file.Close()
}
