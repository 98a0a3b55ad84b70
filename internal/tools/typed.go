package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/davebream/mcpreflect/internal/protocol"
	"github.com/invopop/jsonschema"
)

// NewTypedTool builds a Tool whose arguments decode into A. The input schema
// is reflected from A; unknown argument fields are accepted and ignored.
func NewTypedTool[A any](name, description string, fn func(ctx context.Context, args A) (any, error)) Tool {
	return Tool{
		Descriptor: protocol.Tool{
			Name:        name,
			Description: description,
			InputSchema: ReflectSchema[A](),
		},
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var a A
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &a); err != nil {
					return nil, fmt.Errorf("invalid arguments: %w", err)
				}
			}
			return fn(ctx, a)
		},
	}
}

// ReflectSchema reflects A into the simplified object schema used in
// tools/list. Fields without omitempty are required.
func ReflectSchema[A any]() protocol.ToolInputSchema {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
	s := r.Reflect(new(A))

	props := make(map[string]protocol.SchemaProperty)
	if s == nil || s.Type != "object" {
		return protocol.ToolInputSchema{Type: "object", Properties: props}
	}
	if s.Properties != nil {
		for el := s.Properties.Oldest(); el != nil; el = el.Next() {
			props[el.Key] = protocol.SchemaProperty{
				Type:        el.Value.Type,
				Description: el.Value.Description,
			}
		}
	}
	var required []string
	if len(s.Required) > 0 {
		required = append(required, s.Required...)
	}
	return protocol.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}
