package fileio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// StatusOK marks a per-path record whose operation succeeded.
const StatusOK = "ok"

// OpResult is the minimal per-path record shared by mutating batch
// operations (remove, copy, move, touch, mkdir).
type OpResult struct {
	Path   string `json:"path"`
	Status string `json:"status"`
	Exists bool   `json:"exists"`
}

// LineCountResult reports the line count for one path.
type LineCountResult struct {
	Path   string `json:"path"`
	Status string `json:"status"`
	Lines  *int64 `json:"lines"`
	Exists bool   `json:"exists"`
}

// WordCountResult reports the word count for one path.
type WordCountResult struct {
	Path   string `json:"path"`
	Status string `json:"status"`
	Words  *int64 `json:"words"`
	Exists bool   `json:"exists"`
}

// ModeResult reports the permission bits for one path as an octal
// string such as "0644".
type ModeResult struct {
	Path   string `json:"path"`
	Status string `json:"status"`
	Mode   string `json:"mode,omitempty"`
	Exists bool   `json:"exists"`
}

// StatResult is the full metadata record for one path.
type StatResult struct {
	Path      string `json:"path"`
	Status    string `json:"status"`
	Type      string `json:"type,omitempty"`
	Size      int64  `json:"size"`
	Mode      string `json:"mode,omitempty"`
	MimeType  string `json:"mime_type,omitempty"`
	Modified  int64  `json:"modified,omitempty"`
	Accessed  int64  `json:"accessed,omitempty"`
	Created   int64  `json:"created,omitempty"`
	IsFile    bool   `json:"is_file"`
	IsDir     bool   `json:"is_dir"`
	IsSymlink bool   `json:"is_symlink"`
	Exists    bool   `json:"exists"`
}

// DirEntry is one row of a directory listing.
type DirEntry struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Type     string `json:"type"`
	Size     *int64 `json:"size,omitempty"`
	Modified int64  `json:"modified,omitempty"`
}

// Match is one occurrence found by FindInFiles.
type Match struct {
	FilePath      string   `json:"file_path"`
	LineNumber    int64    `json:"line_number"`
	ColumnStart   int      `json:"column_start"`
	ColumnEnd     int      `json:"column_end"`
	MatchedText   string   `json:"matched_text"`
	ContextBefore []string `json:"context_before,omitempty"`
	ContextAfter  []string `json:"context_after,omitempty"`
}

// errorStatus renders a failed per-path outcome. Missing paths get a
// uniform status so callers can distinguish absence from other faults.
func errorStatus(err error) (status string, exists bool) {
	if isNotFound(err) {
		return "error: not found", false
	}
	return fmt.Sprintf("error: %v", err), true
}

func isNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist)
}

// entryType names the filesystem entry kind the way the tool results
// report it.
func entryType(info fs.FileInfo) string {
	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		return "symlink"
	case info.IsDir():
		return "directory"
	case info.Mode().IsRegular():
		return "file"
	default:
		return "unknown"
	}
}
