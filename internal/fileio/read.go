package fileio

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LineWindow selects which lines ReadLines returns. Line numbers are
// 1-based and inclusive. EndLine takes precedence over LineCount;
// StartOffset is a 0-based alternative to StartLine.
type LineWindow struct {
	StartLine   *int64
	EndLine     *int64
	LineCount   *int64
	StartOffset *int64
}

// Line pairs content with its 1-based position in the file.
type Line struct {
	LineNumber int64  `json:"line_number"`
	Content    string `json:"content"`
}

// ReadLines reads a file and returns the requested window of lines.
func ReadLines(path string, window LineWindow) ([]Line, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(expanded)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", expanded, err)
	}

	start := int64(0)
	switch {
	case window.StartLine != nil:
		if *window.StartLine == 0 {
			return nil, fmt.Errorf("line numbers start at 1")
		}
		start = *window.StartLine - 1
	case window.StartOffset != nil:
		start = *window.StartOffset
	}

	end := int64(len(lines))
	switch {
	case window.EndLine != nil:
		if *window.EndLine == 0 {
			return nil, fmt.Errorf("line numbers start at 1")
		}
		if window.StartLine != nil && *window.EndLine < *window.StartLine {
			return nil, fmt.Errorf("end_line must be >= start_line")
		}
		end = *window.EndLine
	case window.LineCount != nil:
		end = start + *window.LineCount
	}

	if start > int64(len(lines)) {
		return nil, fmt.Errorf("start_line %d exceeds file length %d", start+1, len(lines))
	}
	if end > int64(len(lines)) {
		end = int64(len(lines))
	}
	if start > end {
		return nil, fmt.Errorf("start_line must be <= end_line")
	}

	out := make([]Line, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, Line{LineNumber: i + 1, Content: lines[i]})
	}
	return out, nil
}

// CountLines counts newline-delimited lines per path. Per-path failures
// become error records, never errors.
func CountLines(paths []string) []LineCountResult {
	results := make([]LineCountResult, 0, len(paths))
	for _, path := range paths {
		n, err := countLinesSingle(path)
		if err != nil {
			status, exists := errorStatus(err)
			results = append(results, LineCountResult{Path: path, Status: status, Exists: exists})
			continue
		}
		results = append(results, LineCountResult{Path: path, Status: StatusOK, Lines: &n, Exists: true})
	}
	return results
}

func countLinesSingle(path string) (int64, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is not a file", expanded)
	}

	file, err := os.Open(expanded)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var count int64
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("read %s: %w", expanded, err)
	}
	return count, nil
}

// CountWords counts whitespace-separated words per path.
func CountWords(paths []string) []WordCountResult {
	results := make([]WordCountResult, 0, len(paths))
	for _, path := range paths {
		n, err := countWordsSingle(path)
		if err != nil {
			status, exists := errorStatus(err)
			results = append(results, WordCountResult{Path: path, Status: status, Exists: exists})
			continue
		}
		results = append(results, WordCountResult{Path: path, Status: StatusOK, Words: &n, Exists: true})
	}
	return results
}

func countWordsSingle(path string) (int64, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is not a file", expanded)
	}

	content, err := os.ReadFile(expanded)
	if err != nil {
		return 0, err
	}
	return int64(len(strings.Fields(string(content)))), nil
}
