package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallToolParams(t *testing.T) {
	t.Run("name and arguments", func(t *testing.T) {
		p, err := ParseCallToolParams(json.RawMessage(`{"name":"reflect","arguments":{"prompt":"p"}}`))
		require.NoError(t, err)
		assert.Equal(t, "reflect", p.Name)
		assert.JSONEq(t, `{"prompt":"p"}`, string(p.Arguments))
	})

	t.Run("absent params", func(t *testing.T) {
		p, err := ParseCallToolParams(nil)
		require.NoError(t, err)
		assert.Empty(t, p.Name)
		assert.Empty(t, p.Arguments)
	})

	t.Run("params not an object", func(t *testing.T) {
		_, err := ParseCallToolParams(json.RawMessage(`"reflect"`))
		assert.Error(t, err)
	})
}

func TestNewJSONToolResult(t *testing.T) {
	res, err := NewJSONToolResult(map[string]any{"ok": true})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	assert.Equal(t, "text", res.Content[0].Type)
	assert.JSONEq(t, `{"ok":true}`, res.Content[0].Text)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":[{"type":"text","text":"{\"ok\":true}"}]}`, string(data))
}

func TestListToolsResultShape(t *testing.T) {
	res := ListToolsResult{Tools: []Tool{{
		Name:        "echo",
		Description: "Echo back input",
		InputSchema: ToolInputSchema{
			Type:       "object",
			Properties: map[string]SchemaProperty{"msg": {Type: "string"}},
			Required:   []string{"msg"},
		},
	}}}
	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tools":[{"name":"echo","description":"Echo back input","inputSchema":{"type":"object","properties":{"msg":{"type":"string"}},"required":["msg"]}}]}`, string(data))
}
