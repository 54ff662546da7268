package fileio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditFileInsertAfterAnchor(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "config.toml", "[deps]\nfirst=\"1\"\n")

	result, err := EditFile(EditRequest{
		Path: path,
		Edits: []EditOp{{
			Op:     "insert_after",
			Search: "[deps]\n",
			Text:   "second=\"2\"\n",
		}},
		ReturnContent: true,
	})
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Equal(t, 1, result.AppliedEdits)
	require.NotNil(t, result.Content)
	assert.Equal(t, "[deps]\nsecond=\"2\"\nfirst=\"1\"\n", *result.Content)
}

func TestEditFileReplaceKeepsNewline(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "b.txt", "a\nb\nc\n")

	result, err := EditFile(EditRequest{
		Path: path,
		Edits: []EditOp{{
			Op:        "replace_lines",
			StartLine: 2,
			EndLine:   2,
			Text:      "B",
		}},
		ReturnContent: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "a\nB\nc\n", *result.Content)
}

func TestEditFileDeleteLines(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "c.txt", "one\ntwo\nthree\nfour\n")

	result, err := EditFile(EditRequest{
		Path: path,
		Edits: []EditOp{{
			Op:        "delete_lines",
			StartLine: 2,
			EndLine:   3,
		}},
		ReturnContent: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "one\nfour\n", *result.Content)
}

func TestEditFileRegexOccurrence(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "d.txt", "x1 x2 x3")

	result, err := EditFile(EditRequest{
		Path: path,
		Edits: []EditOp{{
			Op:         "replace",
			Search:     `x\d`,
			Text:       "Y",
			UseRegex:   true,
			Occurrence: 2,
		}},
		ReturnContent: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "x1 Y x3", *result.Content)
}

func TestEditFileMissingAnchorFails(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "e.txt", "content\n")

	_, err := EditFile(EditRequest{
		Path:  path,
		Edits: []EditOp{{Op: "replace", Search: "absent", Text: "new"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestEditFileOptionalMatchSkips(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "f.txt", "content\n")

	optional := false
	result, err := EditFile(EditRequest{
		Path: path,
		Edits: []EditOp{{
			Op:           "delete",
			Search:       "absent",
			RequireMatch: &optional,
		}},
	})
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, 0, result.AppliedEdits)
}

func TestEditFileDryRunDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "g.txt", "before\n")

	result, err := EditFile(EditRequest{
		Path:   path,
		Edits:  []EditOp{{Op: "replace", Search: "before", Text: "after"}},
		DryRun: true,
	})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	require.NotNil(t, result.Content)
	assert.Equal(t, "after\n", *result.Content)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "before\n", string(onDisk))
}

func TestEditFileCreateIfMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.txt")

	result, err := EditFile(EditRequest{
		Path:            path,
		Edits:           []EditOp{{Op: "insert_at_line", Line: 1, Text: "hello\n"}},
		CreateIfMissing: true,
	})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.FileExists(t, path)
}

func TestEditFileMissingWithoutCreateFails(t *testing.T) {
	dir := t.TempDir()

	_, err := EditFile(EditRequest{
		Path:  filepath.Join(dir, "absent.txt"),
		Edits: []EditOp{{Op: "insert_at_line", Line: 1, Text: "x"}},
	})
	require.Error(t, err)
}

func TestEditFileInsertAtEndOfFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "h.txt", "one\ntwo\n")

	result, err := EditFile(EditRequest{
		Path: path,
		// Line count+1 addresses the position after the last line.
		Edits:         []EditOp{{Op: "insert_at_line", Line: 4, Text: "three\n"}},
		ReturnContent: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\n", *result.Content)
}
