package fileio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Copy copies each source to the destination, one record per resolved
// source. Globs are expanded; multiple sources require a directory
// destination.
func Copy(sources []string, destination string, recursive bool) ([]OpResult, error) {
	resolved, err := resolvePaths(sources, false)
	if err != nil {
		return nil, err
	}
	dest, destIsDir, err := resolveDestination(destination, len(resolved))
	if err != nil {
		return nil, err
	}

	results := make([]OpResult, 0, len(resolved))
	for _, src := range resolved {
		target := dest
		if destIsDir {
			target = filepath.Join(dest, filepath.Base(src))
		}
		if err := copySingle(src, target, recursive); err != nil {
			status, exists := errorStatus(err)
			results = append(results, OpResult{Path: src, Status: status, Exists: exists})
			continue
		}
		results = append(results, OpResult{Path: src, Status: StatusOK, Exists: true})
	}
	return results, nil
}

// Move moves or renames each source into the destination. Parent
// directories of the destination are created as needed.
func Move(sources []string, destination string) ([]OpResult, error) {
	resolved, err := resolvePaths(sources, false)
	if err != nil {
		return nil, err
	}
	dest, destIsDir, err := resolveDestination(destination, len(resolved))
	if err != nil {
		return nil, err
	}

	results := make([]OpResult, 0, len(resolved))
	for _, src := range resolved {
		target := dest
		if destIsDir {
			target = filepath.Join(dest, filepath.Base(src))
		}
		if err := moveSingle(src, target); err != nil {
			status, exists := errorStatus(err)
			results = append(results, OpResult{Path: src, Status: status, Exists: exists})
			continue
		}
		results = append(results, OpResult{Path: src, Status: StatusOK, Exists: true})
	}
	return results, nil
}

// Remove deletes files and directories. force makes missing paths and
// empty glob expansions succeed, so repeated removal is idempotent.
func Remove(paths []string, recursive, force bool) ([]OpResult, error) {
	resolved, err := resolvePaths(paths, force)
	if err != nil {
		return nil, err
	}

	results := make([]OpResult, 0, len(resolved))
	for _, path := range resolved {
		if err := removeSingle(path, recursive, force); err != nil {
			status, exists := errorStatus(err)
			results = append(results, OpResult{Path: path, Status: status, Exists: exists})
			continue
		}
		results = append(results, OpResult{Path: path, Status: StatusOK, Exists: true})
	}
	return results, nil
}

// resolveDestination expands the destination path and decides whether
// sources land inside it. More than one source demands a directory.
func resolveDestination(destination string, sourceCount int) (string, bool, error) {
	dest, err := ExpandPath(destination)
	if err != nil {
		return "", false, err
	}
	info, statErr := os.Stat(dest)
	destIsDir := statErr == nil && info.IsDir()
	if sourceCount > 1 && !destIsDir {
		return "", false, fmt.Errorf("destination %s must be a directory when copying or moving multiple sources", destination)
	}
	return dest, destIsDir, nil
}

func copySingle(source, destination string, recursive bool) error {
	info, err := os.Stat(source)
	if err != nil {
		return err
	}

	if info.IsDir() {
		if !recursive {
			return fmt.Errorf("cannot copy directory without recursive flag")
		}
		return copyDirAll(source, destination)
	}
	return copyFile(source, destination, info.Mode().Perm())
}

func copyFile(source, destination string, perm os.FileMode) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(destination, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s to %s: %w", source, destination, err)
	}
	return out.Close()
}

func copyDirAll(source, destination string) error {
	if err := os.MkdirAll(destination, 0o755); err != nil {
		return fmt.Errorf("create destination directory %s: %w", destination, err)
	}

	entries, err := os.ReadDir(source)
	if err != nil {
		return fmt.Errorf("read source directory %s: %w", source, err)
	}
	for _, entry := range entries {
		src := filepath.Join(source, entry.Name())
		dst := filepath.Join(destination, entry.Name())
		if entry.IsDir() {
			if err := copyDirAll(src, dst); err != nil {
				return err
			}
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if err := copyFile(src, dst, info.Mode().Perm()); err != nil {
			return err
		}
	}
	return nil
}

func moveSingle(source, destination string) error {
	if _, err := os.Stat(source); err != nil {
		return err
	}
	if parent := filepath.Dir(destination); parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("create parent directories for %s: %w", destination, err)
		}
	}
	return os.Rename(source, destination)
}

func removeSingle(path string, recursive, force bool) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) && force {
			return nil
		}
		return err
	}

	if info.IsDir() {
		if recursive {
			return os.RemoveAll(path)
		}
		if err := os.Remove(path); err != nil {
			if isDirNotEmpty(err) {
				return fmt.Errorf("directory is not empty: %s (use recursive=true to remove non-empty directories)", path)
			}
			return err
		}
		return nil
	}
	return os.Remove(path)
}
