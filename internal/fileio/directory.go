package fileio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Mkdir creates each directory. Recursive behaves like mkdir -p and is
// idempotent; non-recursive requires existing parents.
func Mkdir(paths []string, recursive bool) []OpResult {
	results := make([]OpResult, 0, len(paths))
	for _, path := range paths {
		if err := mkdirSingle(path, recursive); err != nil {
			status, exists := errorStatus(err)
			results = append(results, OpResult{Path: path, Status: status, Exists: exists})
			continue
		}
		results = append(results, OpResult{Path: path, Status: StatusOK, Exists: true})
	}
	return results
}

func mkdirSingle(path string, recursive bool) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if recursive {
		return os.MkdirAll(expanded, 0o755)
	}
	err = os.Mkdir(expanded, 0o755)
	if os.IsExist(err) {
		// Matching mkdir -p semantics even without parents: an existing
		// directory is success.
		if info, statErr := os.Stat(expanded); statErr == nil && info.IsDir() {
			return nil
		}
	}
	return err
}

// ListDirectory returns the entries under a directory. A missing path
// yields an empty listing rather than an error.
func ListDirectory(path string, recursive, includeHidden bool) ([]DirEntry, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return []DirEntry{}, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", expanded)
	}

	entries := []DirEntry{}
	if err := collectEntries(expanded, recursive, includeHidden, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func collectEntries(dir string, recursive, includeHidden bool, out *[]DirEntry) error {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", dir, err)
	}

	for _, de := range dirEntries {
		name := de.Name()
		if !includeHidden && strings.HasPrefix(name, ".") {
			continue
		}

		full := filepath.Join(dir, name)
		info, err := de.Info()
		if err != nil {
			return fmt.Errorf("read metadata for %s: %w", full, err)
		}

		entry := DirEntry{
			Name:     name,
			Path:     full,
			Type:     entryType(info),
			Modified: info.ModTime().Unix(),
		}
		if info.Mode().IsRegular() {
			size := info.Size()
			entry.Size = &size
		}
		*out = append(*out, entry)

		if recursive && de.IsDir() {
			if err := collectEntries(full, true, includeHidden, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// Rmdir removes directories only; a non-directory path is a per-path
// error. Recursive removes contents as well.
func Rmdir(paths []string, recursive bool) []OpResult {
	results := make([]OpResult, 0, len(paths))
	for _, path := range paths {
		if err := rmdirSingle(path, recursive); err != nil {
			status, exists := errorStatus(err)
			results = append(results, OpResult{Path: path, Status: status, Exists: exists})
			continue
		}
		results = append(results, OpResult{Path: path, Status: StatusOK, Exists: true})
	}
	return results
}

func rmdirSingle(path string, recursive bool) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", expanded)
	}
	if recursive {
		return os.RemoveAll(expanded)
	}
	if err := os.Remove(expanded); err != nil {
		if isDirNotEmpty(err) {
			return fmt.Errorf("directory is not empty: %s (use recursive=true to remove non-empty directories)", expanded)
		}
		return err
	}
	return nil
}

func isDirNotEmpty(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not empty")
}
