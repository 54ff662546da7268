package fileio

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// EditOp is one structured edit. Anchor ops (insert_after,
// insert_before, replace, delete) locate a span via Search; line ops
// (insert_at_line, replace_lines, delete_lines) address 1-based lines.
type EditOp struct {
	Op           string `json:"op"`
	Search       string `json:"search,omitempty"`
	Text         string `json:"text,omitempty"`
	UseRegex     bool   `json:"use_regex,omitempty"`
	Occurrence   int    `json:"occurrence,omitempty"`
	RequireMatch *bool  `json:"require_match,omitempty"`
	Line         int64  `json:"line,omitempty"`
	StartLine    int64  `json:"start_line,omitempty"`
	EndLine      int64  `json:"end_line,omitempty"`
}

// EditRequest is the full argument set for EditFile.
type EditRequest struct {
	Path            string   `json:"path"`
	Edits           []EditOp `json:"edits"`
	CreateIfMissing bool     `json:"create_if_missing,omitempty"`
	DryRun          bool     `json:"dry_run,omitempty"`
	ReturnContent   bool     `json:"return_content,omitempty"`
}

// EditResult reports what EditFile did.
type EditResult struct {
	Path         string  `json:"path"`
	Changed      bool    `json:"changed"`
	AppliedEdits int     `json:"applied_edits"`
	DryRun       bool    `json:"dry_run"`
	Content      *string `json:"content,omitempty"`
}

// EditFile applies structured edits in order and writes the file
// atomically unless dry_run is set.
func EditFile(req EditRequest) (*EditResult, error) {
	expanded, err := ExpandPath(req.Path)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(expanded)
	if err != nil {
		if !os.IsNotExist(err) || !req.CreateIfMissing {
			return nil, err
		}
		raw = nil
	}
	original := string(raw)
	content := original
	applied := 0

	for _, edit := range req.Edits {
		before := content
		content, err = applyEdit(content, edit)
		if err != nil {
			return nil, err
		}
		if content != before {
			applied++
		}
	}

	changed := content != original
	if changed && !req.DryRun {
		if err := WriteFile(expanded, content, false); err != nil {
			return nil, err
		}
	}

	result := &EditResult{
		Path:         expanded,
		Changed:      changed,
		AppliedEdits: applied,
		DryRun:       req.DryRun,
	}
	if req.ReturnContent || req.DryRun {
		result.Content = &content
	}
	return result, nil
}

func applyEdit(content string, edit EditOp) (string, error) {
	switch edit.Op {
	case "insert_after", "insert_before", "replace", "delete":
		return applyAnchorEdit(content, edit)
	case "insert_at_line":
		offset, err := lineStartOffset(content, edit.Line)
		if err != nil {
			return "", err
		}
		return content[:offset] + edit.Text + content[offset:], nil
	case "replace_lines":
		start, end, err := lineRangeOffsets(content, edit.StartLine, edit.EndLine)
		if err != nil {
			return "", err
		}
		replacement := edit.Text
		if strings.HasSuffix(content[start:end], "\n") && !strings.HasSuffix(replacement, "\n") {
			replacement += "\n"
		}
		return content[:start] + replacement + content[end:], nil
	case "delete_lines":
		start, end, err := lineRangeOffsets(content, edit.StartLine, edit.EndLine)
		if err != nil {
			return "", err
		}
		return content[:start] + content[end:], nil
	default:
		return "", fmt.Errorf("unknown edit op: %s", edit.Op)
	}
}

func applyAnchorEdit(content string, edit EditOp) (string, error) {
	start, end, found, err := findNthSpan(content, edit.Search, edit.UseRegex, occurrenceOf(edit))
	if err != nil {
		return "", err
	}
	if !found {
		if requireMatch(edit) {
			return "", fmt.Errorf("edit failed: search pattern not found (%s): %s", edit.Op, edit.Search)
		}
		return content, nil
	}

	switch edit.Op {
	case "insert_after":
		return content[:end] + edit.Text + content[end:], nil
	case "insert_before":
		return content[:start] + edit.Text + content[start:], nil
	case "replace":
		return content[:start] + edit.Text + content[end:], nil
	default: // delete
		return content[:start] + content[end:], nil
	}
}

func occurrenceOf(edit EditOp) int {
	if edit.Occurrence == 0 {
		return 1
	}
	return edit.Occurrence
}

// requireMatch defaults to true so silent no-ops have to be opted into.
func requireMatch(edit EditOp) bool {
	return edit.RequireMatch == nil || *edit.RequireMatch
}

func findNthSpan(haystack, needle string, useRegex bool, occurrence int) (start, end int, found bool, err error) {
	if occurrence < 1 {
		return 0, 0, false, fmt.Errorf("occurrence must be >= 1")
	}
	if needle == "" {
		return 0, 0, false, fmt.Errorf("search must not be empty")
	}

	if useRegex {
		re, err := regexp.Compile(needle)
		if err != nil {
			return 0, 0, false, fmt.Errorf("invalid search pattern: %w", err)
		}
		locs := re.FindAllStringIndex(haystack, occurrence)
		if len(locs) < occurrence {
			return 0, 0, false, nil
		}
		loc := locs[occurrence-1]
		return loc[0], loc[1], true, nil
	}

	from := 0
	for i := 0; i < occurrence; i++ {
		pos := strings.Index(haystack[from:], needle)
		if pos < 0 {
			return 0, 0, false, nil
		}
		start = from + pos
		from = start + len(needle)
	}
	return start, start + len(needle), true, nil
}

// lineStarts returns the byte offset of each line's first character.
func lineStarts(content string) []int {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func effectiveLineCount(content string) int {
	if content == "" {
		return 1
	}
	return len(lineStarts(content))
}

// lineStartOffset maps a 1-based line to its byte offset; line count+1
// addresses end of file for appends.
func lineStartOffset(content string, line int64) (int, error) {
	if line < 1 {
		return 0, fmt.Errorf("line must be >= 1")
	}
	count := effectiveLineCount(content)
	if line > int64(count)+1 {
		return 0, fmt.Errorf("invalid line number: %d (file has %d lines)", line, count)
	}
	if line == int64(count)+1 {
		return len(content), nil
	}
	if content == "" {
		return 0, nil
	}
	return lineStarts(content)[line-1], nil
}

func lineRangeOffsets(content string, startLine, endLine int64) (int, int, error) {
	if startLine < 1 || endLine < 1 {
		return 0, 0, fmt.Errorf("line numbers must be >= 1")
	}
	if startLine > endLine {
		return 0, 0, fmt.Errorf("start_line (%d) must be <= end_line (%d)", startLine, endLine)
	}
	count := effectiveLineCount(content)
	if startLine > int64(count) || endLine > int64(count) {
		return 0, 0, fmt.Errorf("invalid line range: %d..%d (file has %d lines)", startLine, endLine, count)
	}
	if content == "" {
		return 0, 0, nil
	}

	starts := lineStarts(content)
	start := starts[startLine-1]
	end := len(content)
	if endLine < int64(len(starts)) {
		end = starts[endLine]
	}
	return start, end, nil
}
