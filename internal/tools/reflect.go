package tools

import (
	"context"

	"github.com/davebream/mcpreflect/internal/reflection"
)

const (
	ReflectToolName        = "reflect"
	reflectToolDescription = "Reflect on a prompt/output pair and provide suggestions"
)

// NewReflectTool exposes g as the "reflect" tool.
func NewReflectTool(g *reflection.Generator) Tool {
	return NewTypedTool(ReflectToolName, reflectToolDescription,
		func(_ context.Context, args reflection.Args) (any, error) {
			return g.Reflect(args), nil
		})
}

// DefaultRegistry returns a registry holding the reflect tool backed by g.
func DefaultRegistry(g *reflection.Generator) (*Registry, error) {
	r := NewRegistry()
	if err := r.Register(NewReflectTool(g)); err != nil {
		return nil, err
	}
	return r, nil
}
