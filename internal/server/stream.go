package server

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/davebream/mcpreflect/internal/protocol"
)

// lineReader yields non-blank, trimmed lines. io.EOF is only returned when
// the underlying reader is exhausted.
type lineReader struct {
	scanner *bufio.Scanner
}

func newLineReader(r io.Reader, maxLineBytes int) *lineReader {
	scanner := bufio.NewScanner(r)
	// The scanner's limit is the larger of max and cap(buf).
	scanner.Buffer(make([]byte, 0, min(4096, maxLineBytes)), maxLineBytes)
	return &lineReader{scanner: scanner}
}

// Next returns a copy of the next non-blank line.
func (lr *lineReader) Next() ([]byte, error) {
	for lr.scanner.Scan() {
		line := bytes.TrimSpace(lr.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		// scanner.Bytes() is invalidated on the next Scan()
		result := make([]byte, len(line))
		copy(result, line)
		return result, nil
	}
	if err := lr.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// responseWriter frames each response as one line and flushes it at once;
// peers block on reading that line.
type responseWriter struct {
	w *bufio.Writer
}

func newResponseWriter(w io.Writer) *responseWriter {
	return &responseWriter{w: bufio.NewWriter(w)}
}

// Write serializes resp, appends a newline and flushes. It returns the
// number of bytes written, terminator included.
func (rw *responseWriter) Write(resp *protocol.Response) (int, error) {
	data, err := resp.Serialize()
	if err != nil {
		return 0, fmt.Errorf("serialize response: %w", err)
	}
	n, err := rw.w.Write(data)
	if err != nil {
		return n, err
	}
	if err := rw.w.WriteByte('\n'); err != nil {
		return n, err
	}
	return n + 1, rw.w.Flush()
}
