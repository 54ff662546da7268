package fileio

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
)

// FindFilesOptions narrows a filename search.
type FindFilesOptions struct {
	Root     string
	MaxDepth *int
	FileType string // "file", "dir", or "symlink"; empty matches all
}

// FindFiles walks the tree under Root and returns paths whose base name
// matches the pattern. Patterns without wildcards match as substrings.
func FindFiles(pattern string, opts FindFilesOptions) ([]string, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	root, err := ExpandPath(root)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	match, err := nameMatcher(pattern)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		matches []string
	)
	conf := fastwalk.Config{Sort: fastwalk.SortFilesFirst}
	walkErr := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		depth := pathDepth(root, path)
		if opts.MaxDepth != nil && depth > *opts.MaxDepth {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !match(d.Name()) {
			return nil
		}
		if !typeMatches(opts.FileType, d) {
			return nil
		}
		mu.Lock()
		matches = append(matches, path)
		mu.Unlock()
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}
	sort.Strings(matches)
	return matches, nil
}

func nameMatcher(pattern string) (func(string) bool, error) {
	if isGlobPattern(pattern) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
		}
		return func(name string) bool {
			ok, _ := doublestar.Match(pattern, name)
			return ok
		}, nil
	}
	return func(name string) bool {
		return strings.Contains(name, pattern)
	}, nil
}

func typeMatches(fileType string, d fs.DirEntry) bool {
	switch fileType {
	case "file":
		return d.Type().IsRegular()
	case "dir", "directory":
		return d.IsDir()
	case "symlink":
		return d.Type()&fs.ModeSymlink != 0
	default:
		return true
	}
}

func pathDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// SearchOptions controls content search behavior.
type SearchOptions struct {
	CaseSensitive bool
	UseRegex      bool
	MaxCount      *int // per-file cap
	MaxDepth      *int
	IncludeHidden bool
	FileGlob      string
	ExcludeGlob   string
	WholeWord     bool
	Multiline     bool
	ContextLines  int // surrounding lines to attach per match
}

// FindInFiles searches file contents under a path for a pattern.
// Binary files (invalid UTF-8) are skipped. Matches come back ordered
// by file path, then position.
func FindInFiles(pattern, path string, opts SearchOptions) ([]Match, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(expanded); err != nil {
		return nil, err
	}

	re, err := buildSearchRegexp(pattern, opts)
	if err != nil {
		return nil, err
	}

	files, err := collectSearchFiles(expanded, opts)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, file := range files {
		fileMatches, err := searchFile(file, re, opts)
		if err != nil {
			// Unreadable files are skipped the same way binary files are.
			continue
		}
		matches = append(matches, fileMatches...)
	}
	return matches, nil
}

func buildSearchRegexp(pattern string, opts SearchOptions) (*regexp.Regexp, error) {
	expr := pattern
	if !opts.UseRegex {
		expr = regexp.QuoteMeta(pattern)
	}
	if opts.WholeWord {
		expr = `\b` + expr + `\b`
	}
	var flags string
	if !opts.CaseSensitive {
		flags += "i"
	}
	if opts.Multiline {
		flags += "m"
	}
	if flags != "" {
		expr = "(?" + flags + ")" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid search pattern: %w", err)
	}
	return re, nil
}

func collectSearchFiles(root string, opts SearchOptions) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var (
		mu    sync.Mutex
		files []string
	)
	conf := fastwalk.Config{Sort: fastwalk.SortFilesFirst}
	walkErr := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		hidden := strings.HasPrefix(name, ".") && path != root
		if d.IsDir() {
			if hidden && !opts.IncludeHidden {
				return filepath.SkipDir
			}
			if opts.MaxDepth != nil && pathDepth(root, path) > *opts.MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden && !opts.IncludeHidden {
			return nil
		}
		if opts.MaxDepth != nil && pathDepth(root, path) > *opts.MaxDepth {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if opts.FileGlob != "" {
			if ok, _ := doublestar.Match(opts.FileGlob, name); !ok {
				return nil
			}
		}
		if opts.ExcludeGlob != "" {
			if ok, _ := doublestar.Match(opts.ExcludeGlob, name); ok {
				return nil
			}
		}
		mu.Lock()
		files = append(files, path)
		mu.Unlock()
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}
	sort.Strings(files)
	return files, nil
}

func searchFile(path string, re *regexp.Regexp, opts SearchOptions) ([]Match, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := string(raw)
	if !validUTF8(content) {
		return nil, nil
	}

	var matches []Match
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if opts.MaxCount != nil && len(matches) >= *opts.MaxCount {
			break
		}
		for _, loc := range re.FindAllStringIndex(line, -1) {
			m := Match{
				FilePath:    path,
				LineNumber:  int64(i) + 1,
				ColumnStart: loc[0],
				ColumnEnd:   loc[1],
				MatchedText: line[loc[0]:loc[1]],
			}
			if opts.ContextLines > 0 {
				m.ContextBefore = contextSlice(lines, max(0, i-opts.ContextLines), i)
				m.ContextAfter = contextSlice(lines, i+1, min(len(lines), i+1+opts.ContextLines))
			}
			matches = append(matches, m)
			if opts.MaxCount != nil && len(matches) >= *opts.MaxCount {
				break
			}
		}
	}
	return matches, nil
}

func contextSlice(lines []string, from, to int) []string {
	if from >= to {
		return nil
	}
	out := make([]string, to-from)
	copy(out, lines[from:to])
	return out
}

func validUTF8(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}
