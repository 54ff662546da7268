package fileio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandPath resolves a leading tilde and environment variable
// references, mirroring shell behavior for paths clients pass in.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %q: %w", path, err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path), nil
}

// isGlobPattern reports whether the string carries glob metacharacters
// and should be expanded rather than used verbatim.
func isGlobPattern(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// expandGlob matches a pattern against the entries of its parent
// directory. Results are sorted for deterministic batch ordering.
func expandGlob(pattern string) ([]string, error) {
	expanded, err := ExpandPath(pattern)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(expanded)
	base := filepath.Base(expanded)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var matches []string
	for _, entry := range entries {
		ok, err := doublestar.Match(base, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if ok {
			matches = append(matches, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(matches)
	return matches, nil
}

// resolvePaths expands globs and tildes across a path batch. When
// lenient is set, a pattern with no matches contributes nothing instead
// of failing the whole batch.
func resolvePaths(paths []string, lenient bool) ([]string, error) {
	var resolved []string
	for _, p := range paths {
		if isGlobPattern(p) {
			matches, err := expandGlob(p)
			if err != nil {
				return nil, err
			}
			if len(matches) == 0 && !lenient {
				return nil, fmt.Errorf("no files match pattern: %s", p)
			}
			resolved = append(resolved, matches...)
			continue
		}
		expanded, err := ExpandPath(p)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, expanded)
	}
	return resolved, nil
}
