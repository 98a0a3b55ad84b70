// Package server implements the stdio JSON-RPC tool server: a dispatcher
// that turns one request line into exactly one response, and a loop that
// drives it over a line-delimited stream.
package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/davebream/mcpreflect/internal/protocol"
	"github.com/davebream/mcpreflect/internal/tools"
)

const defaultMaxLineBytes = 10 * 1024 * 1024

type Server struct {
	info            protocol.Implementation
	protocolVersion string
	tools           *tools.Registry
	logger          *slog.Logger
	maxLineBytes    int
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the diagnostic logger. It must not write to the protocol
// stream.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithServerInfo sets the name and version reported by initialize.
func WithServerInfo(name, version string) Option {
	return func(s *Server) {
		if name != "" {
			s.info.Name = name
		}
		if version != "" {
			s.info.Version = version
		}
	}
}

// WithProtocolVersion overrides the protocol version reported by initialize.
func WithProtocolVersion(v string) Option {
	return func(s *Server) {
		if v != "" {
			s.protocolVersion = v
		}
	}
}

// WithMaxLineBytes bounds the size of one request line.
func WithMaxLineBytes(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLineBytes = n
		}
	}
}

// New returns a Server exposing the tools in registry.
func New(registry *tools.Registry, opts ...Option) *Server {
	s := &Server{
		info:            protocol.Implementation{Name: "Reflection MCP Server", Version: "1.0.0"},
		protocolVersion: protocol.ProtocolVersion,
		tools:           registry,
		logger:          slog.New(slog.DiscardHandler),
		maxLineBytes:    defaultMaxLineBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle turns one request line into its response. It never panics: parse
// failures, unknown methods, unknown tools and handler faults all become
// error responses carrying whatever id could be extracted.
func (s *Server) Handle(ctx context.Context, line []byte) (resp *protocol.Response) {
	var id json.RawMessage
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while handling request", "id", idForLog(id), "panic", r)
			resp = protocol.NewErrorResponse(id, protocol.Errorf(protocol.CodeInternalError, "%v", r))
		}
	}()

	msg, err := protocol.ParseMessage(line)
	id = msg.ID
	if err != nil {
		s.logger.Warn("malformed request", "id", msg.IDString(), "error", err)
		return protocol.NewErrorResponse(id, protocol.AsError(err))
	}
	s.logger.Debug("received request", "method", msg.Method, "id", msg.IDString(), "notification", msg.IsNotification())

	result, err := s.dispatch(ctx, msg)
	if err != nil {
		rpcErr := protocol.AsError(err)
		s.logger.Warn("request failed", "method", msg.Method, "id", msg.IDString(), "code", int(rpcErr.Code), "error", rpcErr.Message)
		return protocol.NewErrorResponse(id, rpcErr)
	}

	resp, err = protocol.NewResultResponse(id, result)
	if err != nil {
		s.logger.Error("encode result", "method", msg.Method, "id", msg.IDString(), "error", err)
		return protocol.NewErrorResponse(id, protocol.AsError(err))
	}
	return resp
}

func (s *Server) dispatch(ctx context.Context, msg *protocol.Message) (any, error) {
	switch msg.Method {
	case protocol.MethodInitialize:
		s.logger.Debug("dispatch", "handler", "initialize")
		return protocol.NewInitializeResult(s.info, s.protocolVersion), nil

	case protocol.MethodToolsList:
		s.logger.Debug("dispatch", "handler", "tools/list")
		return &protocol.ListToolsResult{Tools: s.tools.List()}, nil

	case protocol.MethodToolsCall:
		params, err := protocol.ParseCallToolParams(msg.Params)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("dispatch", "handler", "tools/call", "tool", params.Name)
		return s.tools.Call(ctx, params.Name, params.Arguments)

	default:
		return nil, protocol.Errorf(protocol.CodeMethodNotFound, "Method not found: %s", msg.Method)
	}
}

func idForLog(id json.RawMessage) string {
	if len(id) == 0 {
		return "null"
	}
	return string(id)
}
