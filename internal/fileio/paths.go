package fileio

import (
	"fmt"
	"os"
	"path/filepath"
)

// Basename returns the final path component.
func Basename(path string) (string, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", err
	}
	base := filepath.Base(expanded)
	if base == "/" || base == "." {
		return "", fmt.Errorf("cannot extract basename from path: %s", path)
	}
	return base, nil
}

// Dirname returns the directory portion of a path; a bare filename
// yields an empty string.
func Dirname(path string) (string, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(expanded)
	if dir == "." && !filepath.IsAbs(expanded) {
		return "", nil
	}
	return dir, nil
}

// Canonical resolves symlinks and relative components to an absolute
// path. The path must exist.
func Canonical(path string) (string, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(expanded); err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(expanded)
	if err != nil {
		return "", fmt.Errorf("canonicalize %s: %w", expanded, err)
	}
	return filepath.Abs(resolved)
}

// ReadLink returns a symlink's stored target, without following it, so
// broken links are still readable.
func ReadLink(path string) (string, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", err
	}
	info, err := os.Lstat(expanded)
	if err != nil {
		return "", err
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return "", fmt.Errorf("%s is not a symbolic link", expanded)
	}
	return os.Readlink(expanded)
}

// HardLink creates a hard link at linkPath pointing to target. The
// target must be an existing regular file.
func HardLink(target, linkPath string) error {
	expandedTarget, err := ExpandPath(target)
	if err != nil {
		return err
	}
	expandedLink, err := ExpandPath(linkPath)
	if err != nil {
		return err
	}

	info, err := os.Stat(expandedTarget)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("cannot hard link directory: %s", expandedTarget)
	}

	if parent := filepath.Dir(expandedLink); parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("create parent directories for %s: %w", expandedLink, err)
		}
	}
	return os.Link(expandedTarget, expandedLink)
}

// Symlink creates a symbolic link at linkPath. The target does not
// have to exist.
func Symlink(target, linkPath string) error {
	expandedTarget, err := ExpandPath(target)
	if err != nil {
		return err
	}
	expandedLink, err := ExpandPath(linkPath)
	if err != nil {
		return err
	}
	if parent := filepath.Dir(expandedLink); parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("create parent directories for %s: %w", expandedLink, err)
		}
	}
	return os.Symlink(expandedTarget, expandedLink)
}

// MakeTemporary creates a uniquely named file or directory that
// persists until removed. kind is "file" or "dir"; template, when set,
// names the directory to create it in.
func MakeTemporary(kind, template string) (string, error) {
	dir := ""
	if template != "" {
		expanded, err := ExpandPath(template)
		if err != nil {
			return "", err
		}
		if err := os.MkdirAll(expanded, 0o755); err != nil {
			return "", fmt.Errorf("create template directory %s: %w", expanded, err)
		}
		dir = expanded
	}

	switch kind {
	case "file":
		file, err := os.CreateTemp(dir, "fileio-*")
		if err != nil {
			return "", fmt.Errorf("create temporary file: %w", err)
		}
		path := file.Name()
		return path, file.Close()
	case "dir":
		path, err := os.MkdirTemp(dir, "fileio-*")
		if err != nil {
			return "", fmt.Errorf("create temporary directory: %w", err)
		}
		return path, nil
	default:
		return "", fmt.Errorf("invalid type: %s (must be 'file' or 'dir')", kind)
	}
}

// WorkingDirectory reports the process's current directory.
func WorkingDirectory() (string, error) {
	return os.Getwd()
}
