package audit

import (
	"context"
	"fmt"
	"time"
)

// Logger records audit events
type Logger interface {
	// RecordDecision logs an authorization decision
	RecordDecision(ctx context.Context, event *DecisionEvent)

	// Flush flushes pending events
	Flush() error

	// Close closes the logger and flushes remaining events
	Close() error
}

// Config for audit logger
type Config struct {
	// Enabled enables audit logging
	Enabled bool

	// Output type: stdout, file
	Type string

	// For file output
	FilePath       string
	FileMaxSize    int // MB
	FileMaxAge     int // Days
	FileMaxBackups int

	// Performance tuning
	BufferSize    int           // Ring buffer size (default: 1000)
	FlushInterval time.Duration // Batch interval (default: 100ms)
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		Type:           "stdout",
		BufferSize:     1000,
		FlushInterval:  100 * time.Millisecond,
		FileMaxSize:    100, // 100MB
		FileMaxAge:     30,  // 30 days
		FileMaxBackups: 10,
	}
}

// Validate validates the configuration and applies defaults
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Type == "" {
		return fmt.Errorf("audit type is required")
	}

	if c.Type != "stdout" && c.Type != "file" {
		return fmt.Errorf("invalid audit type: %s (must be stdout or file)", c.Type)
	}

	if c.Type == "file" && c.FilePath == "" {
		return fmt.Errorf("file path is required for file output")
	}

	if c.BufferSize <= 0 {
		c.BufferSize = 1000
	}

	if c.FlushInterval <= 0 {
		c.FlushInterval = 100 * time.Millisecond
	}

	return nil
}

// NewLogger creates a new audit logger
func NewLogger(cfg Config) (Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if !cfg.Enabled {
		return &noopLogger{}, nil
	}

	var writer Writer
	var err error

	switch cfg.Type {
	case "stdout":
		writer = NewStdoutWriter()
	case "file":
		writer, err = NewFileWriter(cfg.FilePath, cfg.FileMaxSize, cfg.FileMaxAge, cfg.FileMaxBackups)
		if err != nil {
			return nil, fmt.Errorf("create file writer: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported audit type: %s", cfg.Type)
	}

	return newAsyncLogger(writer, cfg), nil
}

// noopLogger is used when audit logging is disabled
type noopLogger struct{}

func (n *noopLogger) RecordDecision(ctx context.Context, event *DecisionEvent) {}
func (n *noopLogger) Flush() error                                             { return nil }
func (n *noopLogger) Close() error                                             { return nil }
