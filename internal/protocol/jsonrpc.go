package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Version is the JSON-RPC version carried by every response.
const Version = "2.0"

// ErrorCode is a JSON-RPC 2.0 error code.
type ErrorCode int

const (
	CodeMethodNotFound ErrorCode = -32601
	CodeInvalidParams  ErrorCode = -32602
	CodeInternalError  ErrorCode = -32603
)

// Message is an incoming JSON-RPC 2.0 request or notification.
// ID holds the raw id bytes so they can be echoed back unchanged.
type Message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

var errNotObject = errors.New("request must be a JSON object")

// ParseMessage decodes one line in two stages: a structural decode into raw
// fields, then extraction of id, method and params. On failure the returned
// message is never nil and carries whatever fields were extracted before the
// fault, so the caller can still echo the id.
func ParseMessage(data []byte) (*Message, error) {
	msg := &Message{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return msg, fmt.Errorf("parse JSON-RPC message: %w", err)
	}
	if fields == nil {
		return msg, fmt.Errorf("parse JSON-RPC message: %w", errNotObject)
	}

	msg.ID = fields["id"]
	msg.Params = fields["params"]

	if raw, ok := fields["jsonrpc"]; ok {
		// Not enforced; older clients omit or mistype it.
		_ = json.Unmarshal(raw, &msg.JSONRPC)
	}
	if raw, ok := fields["method"]; ok {
		if err := json.Unmarshal(raw, &msg.Method); err != nil {
			return msg, fmt.Errorf("method must be a string: %w", err)
		}
	}
	return msg, nil
}

// IsNotification returns true if the message carries no id.
func (m *Message) IsNotification() bool {
	return len(m.ID) == 0
}

// IDString renders the id for logs.
func (m *Message) IDString() string {
	if len(m.ID) == 0 {
		return "null"
	}
	return string(m.ID)
}

// Response is a JSON-RPC 2.0 response. A nil ID serializes as null.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// NewResultResponse builds a successful response around result.
func NewResultResponse(id json.RawMessage, result any) (*Response, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return &Response{JSONRPC: Version, ID: id, Result: data}, nil
}

// NewErrorResponse builds an error response.
func NewErrorResponse(id json.RawMessage, e *Error) *Response {
	return &Response{JSONRPC: Version, ID: id, Error: e}
}

// Serialize encodes the response as a single line without the terminator.
func (r *Response) Serialize() ([]byte, error) {
	return json.Marshal(r)
}

// Error is a JSON-RPC error object. It doubles as a Go error so handlers can
// return protocol failures directly.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// Errorf builds an *Error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsError maps any error onto a JSON-RPC error object. Errors that are not
// already protocol errors become internal errors carrying err's text.
func AsError(err error) *Error {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	return &Error{Code: CodeInternalError, Message: err.Error()}
}
