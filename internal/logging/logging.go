// Package logging builds the diagnostic logger. Diagnostics never go to
// stdout: that stream carries the protocol.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const (
	maxLogBytes = 10 * 1024 * 1024
	maxLogAge   = 7 * 24 * time.Hour
)

// Options configure Setup.
type Options struct {
	// Level is shared with the handlers so it can be changed while running.
	// Nil means a fixed info level.
	Level *slog.LevelVar
	// Stderr receives JSON records. Nil means os.Stderr.
	Stderr io.Writer
	// FilePath, when set, also writes JSON records to a rotated file there.
	FilePath string
}

// Setup creates the process logger. The returned cleanup closes the log file.
func Setup(opts Options) (*slog.Logger, func(), error) {
	level := opts.Level
	if level == nil {
		level = new(slog.LevelVar)
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	handlers := []slog.Handler{slog.NewJSONHandler(stderr, handlerOpts)}
	cleanup := func() {}

	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0700); err != nil {
			return nil, nil, fmt.Errorf("setup logging: %w", err)
		}
		rw, err := NewRotatingWriter(opts.FilePath, maxLogBytes, maxLogAge)
		if err != nil {
			return nil, nil, fmt.Errorf("setup logging: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(rw, handlerOpts))
		cleanup = func() { rw.Close() }
	}

	var handler slog.Handler = handlers[0]
	if len(handlers) > 1 {
		handler = NewMultiHandler(handlers...)
	}
	return slog.New(NewScrubbingHandler(handler)), cleanup, nil
}

// RunLogger tags parent with the id of one serve run.
func RunLogger(parent *slog.Logger, runID string) *slog.Logger {
	return parent.With("run", runID)
}
