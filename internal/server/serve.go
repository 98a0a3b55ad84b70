package server

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/davebream/mcpreflect/internal/protocol"
)

type readResult struct {
	line []byte
	err  error
}

// Serve reads requests from r and writes one response line per request to
// w, strictly in order. It returns nil on end-of-stream or when ctx is
// canceled. A read fault is reported to the peer as an error response with
// a null id and then returned.
//
// Reads happen on a helper goroutine so cancellation is observed while
// blocked, but a read is only started after the previous response has been
// flushed.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	lines := newLineReader(r, s.maxLineBytes)
	out := newResponseWriter(w)

	next := make(chan struct{})
	reads := make(chan readResult)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case <-next:
			case <-done:
				return
			}
			line, err := lines.Next()
			select {
			case reads <- readResult{line: line, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	s.logger.Info("server ready", "name", s.info.Name, "version", s.info.Version, "protocol", s.protocolVersion)

	for {
		select {
		case next <- struct{}{}:
		case <-ctx.Done():
			s.logger.Info("shutting down", "reason", ctx.Err())
			return nil
		}

		var rr readResult
		select {
		case rr = <-reads:
		case <-ctx.Done():
			s.logger.Info("shutting down", "reason", ctx.Err())
			return nil
		}

		if errors.Is(rr.err, io.EOF) {
			s.logger.Info("end of input, exiting")
			return nil
		}
		if rr.err != nil {
			s.logger.Error("read request", "error", rr.err)
			resp := protocol.NewErrorResponse(nil, protocol.Errorf(protocol.CodeInternalError, "%v", rr.err))
			if _, werr := out.Write(resp); werr != nil {
				s.logger.Error("write error response", "error", werr)
			}
			return fmt.Errorf("read request: %w", rr.err)
		}

		s.logger.Debug("received line", "line", string(rr.line))
		resp := s.Handle(ctx, rr.line)

		n, err := out.Write(resp)
		if err != nil {
			return fmt.Errorf("write response: %w", err)
		}
		if resp.Error != nil {
			s.logger.Debug("sent response", "id", idForLog(resp.ID), "bytes", n, "code", int(resp.Error.Code))
		} else {
			s.logger.Debug("sent response", "id", idForLog(resp.ID), "bytes", n)
		}
	}
}
