package audit

import (
	"encoding/json"
	"io"
	"os"
	"sync"
)

// Writer writes audit events to a destination
type Writer interface {
	// Write writes an event
	Write(event interface{}) error

	// Close closes the writer
	Close() error
}

// jsonWriter writes audit events to an io.Writer as JSON lines
type jsonWriter struct {
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewStdoutWriter creates a writer that emits JSON lines on stdout
func NewStdoutWriter() Writer {
	return NewJSONWriter(os.Stdout)
}

// NewJSONWriter creates a writer that emits JSON lines on w
func NewJSONWriter(w io.Writer) Writer {
	return &jsonWriter{
		encoder: json.NewEncoder(w),
	}
}

// Write writes an event as a single JSON line
func (w *jsonWriter) Write(event interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.encoder.Encode(event)
}

// Close closes the writer (no-op; the underlying stream is not owned)
func (w *jsonWriter) Close() error {
	return nil
}
