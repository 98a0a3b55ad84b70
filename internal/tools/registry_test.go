package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/davebream/mcpreflect/internal/protocol"
	"github.com/davebream/mcpreflect/internal/reflection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool(name string) Tool {
	return Tool{
		Descriptor: protocol.Tool{Name: name, InputSchema: protocol.ToolInputSchema{Type: "object"}},
		Handler: func(_ context.Context, args json.RawMessage) (any, error) {
			return args, nil
		},
	}
}

func TestRegistryRegister(t *testing.T) {
	t.Run("duplicate name rejected", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(echoTool("echo")))
		assert.Error(t, r.Register(echoTool("echo")))
	})

	t.Run("empty name rejected", func(t *testing.T) {
		assert.Error(t, NewRegistry().Register(echoTool("")))
	})

	t.Run("nil handler rejected", func(t *testing.T) {
		assert.Error(t, NewRegistry().Register(Tool{Descriptor: protocol.Tool{Name: "x"}}))
	})
}

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool("zeta")))
	require.NoError(t, r.Register(echoTool("alpha")))

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "zeta", list[1].Name)
}

func TestRegistryCall(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool("echo")))
	require.NoError(t, r.Register(Tool{
		Descriptor: protocol.Tool{Name: "broken"},
		Handler: func(context.Context, json.RawMessage) (any, error) {
			return nil, errors.New("exploded")
		},
	}))

	t.Run("known tool", func(t *testing.T) {
		res, err := r.Call(context.Background(), "echo", json.RawMessage(`{"a":1}`))
		require.NoError(t, err)
		require.Len(t, res.Content, 1)
		assert.JSONEq(t, `{"a":1}`, res.Content[0].Text)
	})

	t.Run("unknown tool", func(t *testing.T) {
		_, err := r.Call(context.Background(), "nope", nil)
		var rpcErr *protocol.Error
		require.ErrorAs(t, err, &rpcErr)
		assert.Equal(t, protocol.CodeInvalidParams, rpcErr.Code)
		assert.Contains(t, rpcErr.Message, "nope")
	})

	t.Run("lookup", func(t *testing.T) {
		tool, ok := r.Lookup("echo")
		require.True(t, ok)
		assert.Equal(t, "echo", tool.Descriptor.Name)
		_, ok = r.Lookup("nope")
		assert.False(t, ok)
	})

	t.Run("handler error is not a protocol error", func(t *testing.T) {
		_, err := r.Call(context.Background(), "broken", nil)
		require.Error(t, err)
		assert.Equal(t, protocol.CodeInternalError, protocol.AsError(err).Code)
		assert.Contains(t, err.Error(), "exploded")
	})
}

func TestReflectSchema(t *testing.T) {
	schema := ReflectSchema[reflection.Args]()

	assert.Equal(t, "object", schema.Type)
	assert.ElementsMatch(t, []string{"prompt", "output"}, schema.Required)
	assert.Equal(t, protocol.SchemaProperty{Type: "string", Description: "The original prompt"}, schema.Properties["prompt"])
	assert.Equal(t, "string", schema.Properties["output"].Type)
	assert.Equal(t, "boolean", schema.Properties["success"].Type)
	assert.Equal(t, "string", schema.Properties["sessionID"].Type)
	assert.Equal(t, "array", schema.Properties["history"].Type)
}

func TestReflectTool(t *testing.T) {
	g := reflection.New(reflection.WithClock(func() time.Time {
		return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	}))
	r, err := DefaultRegistry(g)
	require.NoError(t, err)

	list := r.List()
	require.Len(t, list, 1)
	assert.Equal(t, "reflect", list[0].Name)
	assert.Equal(t, "Reflect on a prompt/output pair and provide suggestions", list[0].Description)

	t.Run("decodes arguments", func(t *testing.T) {
		res, err := r.Call(context.Background(), "reflect",
			json.RawMessage(`{"prompt":"Why did it fail?","output":"Error: timeout","success":false,"extra":1}`))
		require.NoError(t, err)

		var out reflection.Result
		require.NoError(t, json.Unmarshal([]byte(res.Content[0].Text), &out))
		assert.Len(t, out.Suggestions, 4)
		assert.Equal(t, "2025-01-02T03:04:05Z", out.Timestamp)
		assert.Contains(t, out.Reflection, "Failure")
	})

	t.Run("null arguments use defaults", func(t *testing.T) {
		res, err := r.Call(context.Background(), "reflect", json.RawMessage(`null`))
		require.NoError(t, err)
		var out reflection.Result
		require.NoError(t, json.Unmarshal([]byte(res.Content[0].Text), &out))
		assert.Len(t, out.Suggestions, 3)
	})

	t.Run("non-object arguments fail", func(t *testing.T) {
		_, err := r.Call(context.Background(), "reflect", json.RawMessage(`"text"`))
		require.Error(t, err)
		assert.Equal(t, protocol.CodeInternalError, protocol.AsError(err).Code)
	})
}
