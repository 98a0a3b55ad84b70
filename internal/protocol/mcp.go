package protocol

import (
	"encoding/json"
	"fmt"
)

// MCP methods served over stdio.
const (
	MethodInitialize = "initialize"
	MethodToolsList  = "tools/list"
	MethodToolsCall  = "tools/call"
)

// Implementation names a server or client.
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ToolsCapability is advertised empty: tools exist but the list never changes.
type ToolsCapability struct{}

type ServerCapabilities struct {
	Tools *ToolsCapability `json:"tools,omitempty"`
}

// SchemaProperty is the simplified per-property JSON Schema MCP clients expect.
type SchemaProperty struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// ToolInputSchema is the object schema advertised for a tool's arguments.
type ToolInputSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]SchemaProperty `json:"properties"`
	Required   []string                  `json:"required,omitempty"`
}

// Tool describes a callable tool in tools/list.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema ToolInputSchema `json:"inputSchema"`
}

type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

// CallToolParams are the params of a tools/call request.
type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ParseCallToolParams decodes tools/call params. Absent params decode to the
// zero value.
func ParseCallToolParams(raw json.RawMessage) (*CallToolParams, error) {
	var params CallToolParams
	if len(raw) == 0 {
		return &params, nil
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("parse tools/call params: %w", err)
	}
	return &params, nil
}

// Content is one block of tool output. Only text blocks are produced.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type CallToolResult struct {
	Content []Content `json:"content"`
}

// NewJSONToolResult encodes v as JSON and wraps it in a single text block.
func NewJSONToolResult(v any) (*CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return &CallToolResult{Content: []Content{{Type: "text", Text: string(data)}}}, nil
}
