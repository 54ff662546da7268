package fileio

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/agentfs/fileio-mcp/internal/registry"
)

// PathList accepts either a single path string or an array of paths,
// normalizing to a slice.
type PathList []string

func (p *PathList) UnmarshalJSON(data []byte) error {
	var single string
	if err := sonic.Unmarshal(data, &single); err == nil {
		*p = PathList{single}
		return nil
	}
	var many []string
	if err := sonic.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("path must be a string or an array of strings")
	}
	*p = PathList(many)
	return nil
}

// Tools returns the complete fileio tool catalog, ready for
// registration.
func Tools() []*registry.Tool {
	return []*registry.Tool{
		readLinesTool(),
		writeFileTool(),
		editFileTool(),
		setPermissionsTool("fileio_set_permissions",
			"Set file or directory permissions (chmod equivalent). Accepts octal mode strings like '755' or '0644' and applies the same mode to every path."),
		setPermissionsTool("fileio_set_mode",
			"Alias for fileio_set_permissions with identical behavior. Accepts octal mode strings like '755' or '0644'."),
		getPermissionsTool(),
		touchTool(),
		statTool(),
		makeDirectoryTool(),
		listDirectoryTool(),
		findFilesTool(),
		findInFilesTool(),
		copyTool(),
		moveTool(),
		removeTool(),
		removeDirectoryTool(),
		hardLinkTool(),
		symlinkTool(),
		basenameTool(),
		dirnameTool(),
		canonicalPathTool(),
		readLinkTool(),
		createTemporaryTool(),
		changeOwnershipTool(),
		currentDirectoryTool(),
		countLinesTool(),
		countWordsTool(),
	}
}

func stringSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc}
}

func numberSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "number", Description: desc}
}

func boolSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "boolean", Description: desc}
}

func pathListSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Description: desc,
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		},
	}
}

func objectSchema(props map[string]*jsonschema.Schema, required ...string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object", Properties: props, Required: required}
}

func decode[T any](raw json.RawMessage) (T, error) {
	var params T
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	err := sonic.Unmarshal(raw, &params)
	return params, err
}

func readLinesTool() *registry.Tool {
	return &registry.Tool{
		Name: "fileio_read_lines",
		Description: "Read lines from a file with flexible windowing. Supports start_line/end_line ranges or start_line/line_count; " +
			"line numbers are 1-based. With no window parameters the whole file is returned as line objects.",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"path":         stringSchema("Path to the file to read. Must exist and be readable."),
			"start_line":   numberSchema("Starting line number (1-based, inclusive)."),
			"end_line":     numberSchema("Ending line number (1-based, inclusive)."),
			"line_count":   numberSchema("Number of lines to read starting from start_line."),
			"start_offset": numberSchema("Starting line offset (0-based) as an alternative to start_line."),
		}, "path"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Path        string `json:"path"`
				StartLine   *int64 `json:"start_line"`
				EndLine     *int64 `json:"end_line"`
				LineCount   *int64 `json:"line_count"`
				StartOffset *int64 `json:"start_offset"`
			}](raw)
			if err != nil {
				return nil, err
			}
			lines, err := ReadLines(params.Path, LineWindow{
				StartLine:   params.StartLine,
				EndLine:     params.EndLine,
				LineCount:   params.LineCount,
				StartOffset: params.StartOffset,
			})
			if err != nil {
				return nil, err
			}
			return registry.JSONResult(lines), nil
		},
	}
}

func writeFileTool() *registry.Tool {
	return &registry.Tool{
		Name: "fileio_write_file",
		Description: "Write content to a file, creating it and any missing parent directories. Overwrites by default; " +
			"set append=true to add to the end instead. Overwrites are atomic (temp file then rename).",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"path":    stringSchema("Path to the file to write. Parent directories are created as needed."),
			"content": stringSchema("Content to write. Can be multi-line text."),
			"append":  boolSchema("Append instead of overwriting. Default: false."),
		}, "path", "content"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Path    string `json:"path"`
				Content string `json:"content"`
				Append  bool   `json:"append"`
			}](raw)
			if err != nil {
				return nil, err
			}
			if err := WriteFile(params.Path, params.Content, params.Append); err != nil {
				return nil, err
			}
			return registry.TextResult("File written successfully"), nil
		},
	}
}

func editFileTool() *registry.Tool {
	return &registry.Tool{
		Name: "fileio_edit_file",
		Description: "Edit a text file with deterministic structured operations: anchor-based edits " +
			"(insert_before/insert_after/replace/delete with literal or regex search) and line-based edits " +
			"(insert_at_line/replace_lines/delete_lines). Anchor edits require a match unless require_match=false.",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"path": stringSchema("Path to the file to edit. Must exist unless create_if_missing=true."),
			"edits": {
				Type:        "array",
				Description: "Edit operations applied in order.",
				Items: objectSchema(map[string]*jsonschema.Schema{
					"op": {
						Type: "string",
						Enum: []any{"insert_after", "insert_before", "replace", "delete",
							"insert_at_line", "replace_lines", "delete_lines"},
					},
					"search":        {Type: "string"},
					"text":          {Type: "string"},
					"use_regex":     {Type: "boolean"},
					"occurrence":    {Type: "number"},
					"require_match": {Type: "boolean"},
					"line":          {Type: "number"},
					"start_line":    {Type: "number"},
					"end_line":      {Type: "number"},
				}, "op"),
			},
			"create_if_missing": boolSchema("Create the file if missing, treating it as empty. Default: false."),
			"dry_run":           boolSchema("Compute but do not write; returns the would-be content. Default: false."),
			"return_content":    boolSchema("Include the updated content in the result. Default: false."),
		}, "path", "edits"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			req, err := decode[EditRequest](raw)
			if err != nil {
				return nil, err
			}
			result, err := EditFile(req)
			if err != nil {
				return nil, err
			}
			return registry.JSONResult(result), nil
		},
	}
}

func setPermissionsTool(name, description string) *registry.Tool {
	return &registry.Tool{
		Name:        name,
		Description: description,
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"path": pathListSchema("Path or array of paths whose permissions to change."),
			"mode": stringSchema("File mode in octal format, e.g. '755', '644', '0600'."),
		}, "path", "mode"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Path PathList `json:"path"`
				Mode string   `json:"mode"`
			}](raw)
			if err != nil {
				return nil, err
			}
			results, err := SetMode(params.Path, params.Mode)
			if err != nil {
				return nil, err
			}
			return registry.JSONResult(results), nil
		},
	}
}

func getPermissionsTool() *registry.Tool {
	return &registry.Tool{
		Name:        "fileio_get_permissions",
		Description: "Get file or directory permissions as an octal string such as '0755', one record per path.",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"path": pathListSchema("Path or array of paths to query."),
		}, "path"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Path PathList `json:"path"`
			}](raw)
			if err != nil {
				return nil, err
			}
			return registry.JSONResult(GetMode(params.Path)), nil
		},
	}
}

func touchTool() *registry.Tool {
	return &registry.Tool{
		Name: "fileio_touch",
		Description: "Touch files: create them if missing (with parent directories) or update their timestamps to now. " +
			"Equivalent to the Unix touch command.",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"path": pathListSchema("Path or array of paths to touch."),
		}, "path"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Path PathList `json:"path"`
			}](raw)
			if err != nil {
				return nil, err
			}
			return registry.JSONResult(Touch(params.Path)), nil
		},
	}
}

func statTool() *registry.Tool {
	return &registry.Tool{
		Name: "fileio_stat",
		Description: "Get detailed metadata per path: size, entry type, octal mode, MIME type for regular files, " +
			"Unix timestamps, and is_file/is_dir/is_symlink flags.",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"path": pathListSchema("Path or array of paths to query."),
		}, "path"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Path PathList `json:"path"`
			}](raw)
			if err != nil {
				return nil, err
			}
			return registry.JSONResult(Stat(params.Path)), nil
		},
	}
}

func makeDirectoryTool() *registry.Tool {
	return &registry.Tool{
		Name: "fileio_make_directory",
		Description: "Create directories. recursive=true (the default) behaves like mkdir -p and succeeds on existing " +
			"directories; recursive=false requires existing parents.",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"path":      pathListSchema("Path or array of directory paths to create."),
			"recursive": boolSchema("Create missing parents. Default: true."),
		}, "path"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Path      PathList `json:"path"`
				Recursive *bool    `json:"recursive"`
			}](raw)
			if err != nil {
				return nil, err
			}
			recursive := params.Recursive == nil || *params.Recursive
			return registry.JSONResult(Mkdir(params.Path, recursive)), nil
		},
	}
}

func listDirectoryTool() *registry.Tool {
	return &registry.Tool{
		Name: "fileio_list_directory",
		Description: "List directory contents with name, path, entry type, size, and modified timestamp per entry. " +
			"Optionally recursive and optionally including hidden entries.",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"path":           stringSchema("Directory to list. Must be a directory if it exists."),
			"recursive":      boolSchema("Recurse into subdirectories. Default: false."),
			"include_hidden": boolSchema("Include entries starting with '.'. Default: false."),
		}, "path"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Path          string `json:"path"`
				Recursive     bool   `json:"recursive"`
				IncludeHidden bool   `json:"include_hidden"`
			}](raw)
			if err != nil {
				return nil, err
			}
			entries, err := ListDirectory(params.Path, params.Recursive, params.IncludeHidden)
			if err != nil {
				return nil, err
			}
			return registry.JSONResult(entries), nil
		},
	}
}

func findFilesTool() *registry.Tool {
	return &registry.Tool{
		Name: "fileio_find_files",
		Description: "Find files and directories whose names match a pattern. Supports * and ? wildcards; patterns " +
			"without wildcards match as substrings. Filter by entry type and limit depth.",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"pattern":   stringSchema("Filename pattern, e.g. '*.txt', 'test?.log'."),
			"root":      stringSchema("Root directory to search from. Default: current directory."),
			"max_depth": numberSchema("Maximum directory depth. 0 = only root."),
			"file_type": {
				Type:        "string",
				Description: "Restrict matches to 'file', 'dir', or 'symlink'.",
				Enum:        []any{"file", "dir", "symlink"},
			},
		}, "pattern"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Pattern  string `json:"pattern"`
				Root     string `json:"root"`
				MaxDepth *int   `json:"max_depth"`
				FileType string `json:"file_type"`
			}](raw)
			if err != nil {
				return nil, err
			}
			matches, err := FindFiles(params.Pattern, FindFilesOptions{
				Root:     params.Root,
				MaxDepth: params.MaxDepth,
				FileType: params.FileType,
			})
			if err != nil {
				return nil, err
			}
			return registry.JSONResult(matches), nil
		},
	}
}

func findInFilesTool() *registry.Tool {
	return &registry.Tool{
		Name: "fileio_find_in_files",
		Description: "Search file contents for a literal string or regex, returning file path, line number, column " +
			"range, and matched text per occurrence. Supports glob include/exclude filters, depth limits, case " +
			"sensitivity, and whole-word matching.",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"pattern":        stringSchema("Pattern to search for; literal unless use_regex=true."),
			"path":           stringSchema("File or directory to search. Directories are searched recursively."),
			"case_sensitive": boolSchema("Case-sensitive matching. Default: true."),
			"use_regex":      boolSchema("Treat pattern as a regular expression. Default: false."),
			"max_count":      numberSchema("Maximum matches to return per file."),
			"max_depth":      numberSchema("Maximum directory depth to search."),
			"include_hidden": boolSchema("Search hidden files and directories. Default: false."),
			"file_glob":      stringSchema("Only search files matching this glob, e.g. '*.go'."),
			"exclude_glob":   stringSchema("Skip files matching this glob, e.g. '*.log'."),
			"whole_word":     boolSchema("Match complete words only. Default: false."),
			"multiline":      boolSchema("Allow regex patterns to span lines. Default: false."),
			"context_lines":  numberSchema("Lines of surrounding context to attach to each match. Default: 0."),
		}, "pattern", "path"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Pattern       string `json:"pattern"`
				Path          string `json:"path"`
				CaseSensitive *bool  `json:"case_sensitive"`
				UseRegex      bool   `json:"use_regex"`
				MaxCount      *int   `json:"max_count"`
				MaxDepth      *int   `json:"max_depth"`
				IncludeHidden bool   `json:"include_hidden"`
				FileGlob      string `json:"file_glob"`
				ExcludeGlob   string `json:"exclude_glob"`
				WholeWord     bool   `json:"whole_word"`
				Multiline     bool   `json:"multiline"`
				ContextLines  int    `json:"context_lines"`
			}](raw)
			if err != nil {
				return nil, err
			}
			matches, err := FindInFiles(params.Pattern, params.Path, SearchOptions{
				CaseSensitive: params.CaseSensitive == nil || *params.CaseSensitive,
				UseRegex:      params.UseRegex,
				MaxCount:      params.MaxCount,
				MaxDepth:      params.MaxDepth,
				IncludeHidden: params.IncludeHidden,
				FileGlob:      params.FileGlob,
				ExcludeGlob:   params.ExcludeGlob,
				WholeWord:     params.WholeWord,
				Multiline:     params.Multiline,
				ContextLines:  params.ContextLines,
			})
			if err != nil {
				return nil, err
			}
			return registry.JSONResult(matches), nil
		},
	}
}

func copyTool() *registry.Tool {
	return &registry.Tool{
		Name: "fileio_copy",
		Description: "Copy files or directories (cp equivalent). Sources may include glob patterns; multiple sources " +
			"require a directory destination. Directories need recursive=true.",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"source":      pathListSchema("Source path or array of paths; glob patterns are expanded."),
			"destination": stringSchema("Destination path. Must be a directory for multiple sources."),
			"recursive":   boolSchema("Copy directories recursively. Default: false."),
		}, "source", "destination"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Source      PathList `json:"source"`
				Destination string   `json:"destination"`
				Recursive   bool     `json:"recursive"`
			}](raw)
			if err != nil {
				return nil, err
			}
			results, err := Copy(params.Source, params.Destination, params.Recursive)
			if err != nil {
				return nil, err
			}
			return registry.JSONResult(results), nil
		},
	}
}

func moveTool() *registry.Tool {
	return &registry.Tool{
		Name: "fileio_move",
		Description: "Move or rename files or directories (mv equivalent). Sources may include glob patterns; multiple " +
			"sources require a directory destination. Parent directories of the destination are created as needed.",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"source":      pathListSchema("Source path or array of paths; glob patterns are expanded."),
			"destination": stringSchema("Destination path. Must be a directory for multiple sources."),
		}, "source", "destination"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Source      PathList `json:"source"`
				Destination string   `json:"destination"`
			}](raw)
			if err != nil {
				return nil, err
			}
			results, err := Move(params.Source, params.Destination)
			if err != nil {
				return nil, err
			}
			return registry.JSONResult(results), nil
		},
	}
}

func removeTool() *registry.Tool {
	return &registry.Tool{
		Name: "fileio_remove",
		Description: "Remove files or directories (rm equivalent). Paths may include glob patterns. Non-empty " +
			"directories need recursive=true. force=true makes removal idempotent: missing paths succeed. " +
			"This operation cannot be undone.",
		Dangerous: true,
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"path":      pathListSchema("Path or array of paths to remove; glob patterns are expanded."),
			"recursive": boolSchema("Remove directories and their contents. Default: false."),
			"force":     boolSchema("Succeed when paths are missing or globs match nothing. Default: false."),
		}, "path"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Path      PathList `json:"path"`
				Recursive bool     `json:"recursive"`
				Force     bool     `json:"force"`
			}](raw)
			if err != nil {
				return nil, err
			}
			results, err := Remove(params.Path, params.Recursive, params.Force)
			if err != nil {
				return nil, err
			}
			return registry.JSONResult(results), nil
		},
	}
}

func removeDirectoryTool() *registry.Tool {
	return &registry.Tool{
		Name: "fileio_remove_directory",
		Description: "Remove directories only (rmdir equivalent). Fails per path when the path is not a directory; " +
			"non-empty directories need recursive=true.",
		Dangerous: true,
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"path":      pathListSchema("Path or array of directory paths to remove."),
			"recursive": boolSchema("Remove contents recursively. Default: false (empty directories only)."),
		}, "path"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Path      PathList `json:"path"`
				Recursive bool     `json:"recursive"`
			}](raw)
			if err != nil {
				return nil, err
			}
			return registry.JSONResult(Rmdir(params.Path, params.Recursive)), nil
		},
	}
}

func hardLinkTool() *registry.Tool {
	return &registry.Tool{
		Name: "fileio_create_hard_link",
		Description: "Create a hard link (ln equivalent). The target must be an existing file on the same filesystem; " +
			"parent directories of the link are created as needed.",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"target":    stringSchema("Existing file to link to."),
			"link_path": stringSchema("Where the hard link is created."),
		}, "target", "link_path"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Target   string `json:"target"`
				LinkPath string `json:"link_path"`
			}](raw)
			if err != nil {
				return nil, err
			}
			if err := HardLink(params.Target, params.LinkPath); err != nil {
				return nil, err
			}
			return registry.TextResult("Hard link created successfully"), nil
		},
	}
}

func symlinkTool() *registry.Tool {
	return &registry.Tool{
		Name: "fileio_create_symbolic_link",
		Description: "Create a symbolic link (ln -s equivalent). The target does not need to exist; parent directories " +
			"of the link are created as needed.",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"target":    stringSchema("Path the symlink will point to. Need not exist."),
			"link_path": stringSchema("Where the symbolic link is created."),
		}, "target", "link_path"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Target   string `json:"target"`
				LinkPath string `json:"link_path"`
			}](raw)
			if err != nil {
				return nil, err
			}
			if err := Symlink(params.Target, params.LinkPath); err != nil {
				return nil, err
			}
			return registry.TextResult("Symbolic link created successfully"), nil
		},
	}
}

func basenameTool() *registry.Tool {
	return &registry.Tool{
		Name:        "fileio_get_basename",
		Description: "Extract the final component of a path: '/path/to/file.txt' yields 'file.txt'.",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"path": stringSchema("Path to extract the basename from."),
		}, "path"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Path string `json:"path"`
			}](raw)
			if err != nil {
				return nil, err
			}
			base, err := Basename(params.Path)
			if err != nil {
				return nil, err
			}
			return registry.TextResult(base), nil
		},
	}
}

func dirnameTool() *registry.Tool {
	return &registry.Tool{
		Name:        "fileio_get_dirname",
		Description: "Extract the directory portion of a path: '/path/to/file.txt' yields '/path/to'. A bare filename yields an empty string.",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"path": stringSchema("Path to extract the dirname from."),
		}, "path"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Path string `json:"path"`
			}](raw)
			if err != nil {
				return nil, err
			}
			dir, err := Dirname(params.Path)
			if err != nil {
				return nil, err
			}
			return registry.TextResult(dir), nil
		},
	}
}

func canonicalPathTool() *registry.Tool {
	return &registry.Tool{
		Name:        "fileio_get_canonical_path",
		Description: "Resolve a path to its canonical absolute form with all symlinks and relative components resolved. The path must exist.",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"path": stringSchema("Path to canonicalize. Must exist."),
		}, "path"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Path string `json:"path"`
			}](raw)
			if err != nil {
				return nil, err
			}
			resolved, err := Canonical(params.Path)
			if err != nil {
				return nil, err
			}
			return registry.TextResult(resolved), nil
		},
	}
}

func readLinkTool() *registry.Tool {
	return &registry.Tool{
		Name:        "fileio_read_symbolic_link",
		Description: "Read the stored target of a symbolic link without following it, so broken links are readable too.",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"path": stringSchema("Symbolic link to read. Must be a symlink."),
		}, "path"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Path string `json:"path"`
			}](raw)
			if err != nil {
				return nil, err
			}
			target, err := ReadLink(params.Path)
			if err != nil {
				return nil, err
			}
			return registry.TextResult(target), nil
		},
	}
}

func createTemporaryTool() *registry.Tool {
	return &registry.Tool{
		Name: "fileio_create_temporary",
		Description: "Create a uniquely named temporary file or directory and return its path. The entry persists " +
			"until removed. template, when provided, names the directory to create it in.",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"type": {
				Type:        "string",
				Description: "'file' creates an empty file, 'dir' an empty directory.",
				Enum:        []any{"file", "dir"},
			},
			"template": stringSchema("Directory to create the temporary entry in. Defaults to the system temp directory."),
		}, "type"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Type     string `json:"type"`
				Template string `json:"template"`
			}](raw)
			if err != nil {
				return nil, err
			}
			path, err := MakeTemporary(params.Type, params.Template)
			if err != nil {
				return nil, err
			}
			return registry.TextResult(path), nil
		},
	}
}

func changeOwnershipTool() *registry.Tool {
	return &registry.Tool{
		Name: "fileio_change_ownership",
		Description: "Change file or directory ownership (chown equivalent). Numeric UID/GID only; at least one of " +
			"user or group must be provided. Unix only.",
		Dangerous: true,
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"path":  pathListSchema("Path or array of paths whose ownership to change."),
			"user":  stringSchema("Numeric user id as a string, e.g. '1000'. Unchanged when omitted."),
			"group": stringSchema("Numeric group id as a string, e.g. '1000'. Unchanged when omitted."),
		}, "path"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Path  PathList `json:"path"`
				User  string   `json:"user"`
				Group string   `json:"group"`
			}](raw)
			if err != nil {
				return nil, err
			}
			results, err := Chown(params.Path, params.User, params.Group)
			if err != nil {
				return nil, err
			}
			return registry.JSONResult(results), nil
		},
	}
}

func currentDirectoryTool() *registry.Tool {
	return &registry.Tool{
		Name:        "fileio_get_current_directory",
		Description: "Get the absolute path of the current working directory (pwd equivalent).",
		InputSchema: &jsonschema.Schema{Type: "object"},
		Handler: func(_ context.Context, _ json.RawMessage) (*registry.Result, error) {
			cwd, err := WorkingDirectory()
			if err != nil {
				return nil, err
			}
			return registry.TextResult(cwd), nil
		},
	}
}

func countLinesTool() *registry.Tool {
	return &registry.Tool{
		Name: "fileio_count_lines",
		Description: "Count newline-separated lines per file. A missing or unreadable path becomes a per-path error " +
			"record; the other paths still report their counts.",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"path": pathListSchema("Path or array of file paths to count lines in."),
		}, "path"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Path PathList `json:"path"`
			}](raw)
			if err != nil {
				return nil, err
			}
			return registry.JSONResult(CountLines(params.Path)), nil
		},
	}
}

func countWordsTool() *registry.Tool {
	return &registry.Tool{
		Name: "fileio_count_words",
		Description: "Count whitespace-separated words per file. A missing or unreadable path becomes a per-path " +
			"error record; the other paths still report their counts.",
		InputSchema: objectSchema(map[string]*jsonschema.Schema{
			"path": pathListSchema("Path or array of file paths to count words in."),
		}, "path"),
		Handler: func(_ context.Context, raw json.RawMessage) (*registry.Result, error) {
			params, err := decode[struct {
				Path PathList `json:"path"`
			}](raw)
			if err != nil {
				return nil, err
			}
			return registry.JSONResult(CountWords(params.Path)), nil
		},
	}
}
