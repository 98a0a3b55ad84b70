// Package tools holds the tool registry consulted by tools/list and
// tools/call. Adding a tool means registering it here; the dispatcher does
// not change.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/davebream/mcpreflect/internal/protocol"
)

// Handler runs a tool with its raw arguments and returns a JSON-serializable
// result.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Tool pairs a descriptor with its handler.
type Tool struct {
	Descriptor protocol.Tool
	Handler    Handler
}

// Registry maps tool names to tools. Register everything before serving;
// the registry is not safe for concurrent registration.
type Registry struct {
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds t. Names must be unique and non-empty.
func (r *Registry) Register(t Tool) error {
	name := t.Descriptor.Name
	if name == "" {
		return fmt.Errorf("register tool: name is required")
	}
	if t.Handler == nil {
		return fmt.Errorf("register tool %q: handler is required", name)
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("register tool %q: already registered", name)
	}
	r.tools[name] = t
	return nil
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns all descriptors sorted by name.
func (r *Registry) List() []protocol.Tool {
	result := make([]protocol.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		result = append(result, t.Descriptor)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Call runs the named tool and wraps its JSON-encoded result in a text
// content block. Unknown names yield an invalid-params protocol error.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (*protocol.CallToolResult, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return nil, protocol.Errorf(protocol.CodeInvalidParams, "Unknown tool: %s", name)
	}
	out, err := t.Handler(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", name, err)
	}
	return protocol.NewJSONToolResult(out)
}
