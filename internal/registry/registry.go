// Package registry is the seam between the protocol layer and the
// filesystem operations. It owns tool metadata, validates arguments
// against each tool's schema before the handler ever sees them, and
// keeps one invocation's failure from touching any other.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bytedance/sonic"
	"github.com/google/jsonschema-go/jsonschema"
	"go.uber.org/zap"

	"github.com/agentfs/fileio-mcp/internal/protocol"
)

// Handler executes one tool invocation. raw is the arguments object
// exactly as received; it has already passed schema validation.
type Handler func(ctx context.Context, raw json.RawMessage) (*Result, error)

// Tool binds a name and input schema to a handler. Dangerous marks
// destructive or identity-changing operations; the server never gates
// on it, but exposes it so a deploying policy layer can.
type Tool struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Dangerous   bool
	Handler     Handler

	resolved *jsonschema.Resolved
}

// Info is the public metadata returned by tools/list.
type Info struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
	Annotations *Annotations       `json:"annotations,omitempty"`
}

// Annotations carries advisory hints about a tool's behavior.
type Annotations struct {
	Dangerous bool `json:"dangerous"`
}

// Registry is an immutable tool table. Build it once at startup and
// share it across sessions without locking.
type Registry struct {
	tools  map[string]*Tool
	sorted []string
	logger *zap.Logger
}

// New compiles every tool's schema and returns the assembled registry.
// A duplicate name or an uncompilable schema is a programming error and
// fails construction.
func New(logger *zap.Logger, tools ...*Tool) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		tools:  make(map[string]*Tool, len(tools)),
		logger: logger,
	}
	for _, tool := range tools {
		if tool.Name == "" {
			return nil, fmt.Errorf("registry: tool with empty name")
		}
		if _, dup := r.tools[tool.Name]; dup {
			return nil, fmt.Errorf("registry: duplicate tool %q", tool.Name)
		}
		if tool.Handler == nil {
			return nil, fmt.Errorf("registry: tool %q has no handler", tool.Name)
		}
		if tool.InputSchema == nil {
			tool.InputSchema = &jsonschema.Schema{Type: "object"}
		}
		resolved, err := tool.InputSchema.Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("registry: tool %q schema: %w", tool.Name, err)
		}
		tool.resolved = resolved
		r.tools[tool.Name] = tool
		r.sorted = append(r.sorted, tool.Name)
	}
	sort.Strings(r.sorted)
	return r, nil
}

// Len reports the number of registered tools.
func (r *Registry) Len() int {
	return len(r.tools)
}

// Get returns the tool with the given name, if registered.
func (r *Registry) Get(name string) (*Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// List returns every tool's public metadata in name order.
func (r *Registry) List() []Info {
	infos := make([]Info, 0, len(r.sorted))
	for _, name := range r.sorted {
		tool := r.tools[name]
		info := Info{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		}
		if tool.Dangerous {
			info.Annotations = &Annotations{Dangerous: true}
		}
		infos = append(infos, info)
	}
	return infos
}

// Dispatch validates the arguments and runs the named tool. Unknown
// names and schema violations are protocol errors; a fault inside the
// handler is contained to this one invocation.
func (r *Registry) Dispatch(ctx context.Context, name string, raw json.RawMessage) (result *Result, perr *protocol.Error) {
	tool, ok := r.tools[name]
	if !ok {
		return nil, protocol.NewError(protocol.CodeMethodNotFound, "Tool not found: %s", name)
	}

	if perr := r.validate(tool, raw); perr != nil {
		return nil, perr
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("tool handler panicked",
				zap.String("tool", name),
				zap.Any("panic", rec))
			result = nil
			perr = protocol.NewError(protocol.CodeInternalError, "Internal error in tool %s", name)
		}
	}()

	res, err := tool.Handler(ctx, raw)
	if err != nil {
		if pe, ok := err.(*protocol.Error); ok {
			return nil, pe
		}
		r.logger.Warn("tool handler failed",
			zap.String("tool", name),
			zap.Error(err))
		return nil, protocol.NewError(protocol.CodeInternalError, "Internal error: %v", err)
	}
	return res, nil
}

// validate checks raw against the tool's compiled schema. Absent
// arguments are treated as an empty object so tools without required
// fields can be called bare.
func (r *Registry) validate(tool *Tool, raw json.RawMessage) *protocol.Error {
	var args any = map[string]any{}
	if len(raw) > 0 {
		if err := sonic.Unmarshal(raw, &args); err != nil {
			return protocol.NewError(protocol.CodeInvalidParams, "Invalid params: %v", err)
		}
	}
	if err := tool.resolved.Validate(args); err != nil {
		return protocol.NewError(protocol.CodeInvalidParams, "Invalid params for %s: %v", tool.Name, err)
	}
	return nil
}
