package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// asyncLogger implements asynchronous audit logging with a ring buffer
type asyncLogger struct {
	writer Writer

	// Ring buffer
	buffer []interface{}
	size   int
	head   int
	tail   int
	mu     sync.Mutex

	// Background writer
	flushCh   chan struct{}
	doneCh    chan struct{}
	stoppedCh chan struct{}
	interval  time.Duration
}

// newAsyncLogger creates a new async logger and starts its flush goroutine
func newAsyncLogger(writer Writer, cfg Config) *asyncLogger {
	l := &asyncLogger{
		writer:    writer,
		buffer:    make([]interface{}, cfg.BufferSize),
		size:      cfg.BufferSize,
		flushCh:   make(chan struct{}, 1),
		doneCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
		interval:  cfg.FlushInterval,
	}

	go l.run()

	return l
}

// RecordDecision logs an authorization decision event
func (l *asyncLogger) RecordDecision(ctx context.Context, event *DecisionEvent) {
	if event == nil {
		return
	}

	// Fill common fields if not already set
	if event.EventID == "" {
		event.EventID = generateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.EventType == "" {
		event.EventType = EventTypeDecision
	}
	if event.RequestID == "" {
		event.RequestID = RequestIDFromContext(ctx)
	}

	l.enqueue(event)
}

// enqueue adds an event to the ring buffer (non-blocking)
func (l *asyncLogger) enqueue(event interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buffer[l.tail] = event
	l.tail = (l.tail + 1) % l.size

	// Drop oldest if buffer full (overflow protection)
	if l.tail == l.head {
		l.head = (l.head + 1) % l.size
	}

	// Trigger flush (non-blocking)
	select {
	case l.flushCh <- struct{}{}:
	default:
	}
}

// run is the background goroutine that flushes events periodically
func (l *asyncLogger) run() {
	defer close(l.stoppedCh)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = l.flush()
		case <-l.flushCh:
			_ = l.flush()
		case <-l.doneCh:
			_ = l.flush() // Final flush on shutdown
			return
		}
	}
}

// Flush flushes pending events (can be called externally)
func (l *asyncLogger) Flush() error {
	return l.flush()
}

// flush writes all buffered events to the writer
func (l *asyncLogger) flush() error {
	l.mu.Lock()
	events := l.copyEvents()
	l.mu.Unlock()

	if len(events) == 0 {
		return nil
	}

	// Write outside the lock; keep going past individual failures
	var lastErr error
	for _, event := range events {
		if err := l.writer.Write(event); err != nil {
			lastErr = err
		}
	}

	return lastErr
}

// copyEvents copies events from the ring buffer and clears it
func (l *asyncLogger) copyEvents() []interface{} {
	if l.head == l.tail {
		return nil
	}

	var events []interface{}
	i := l.head
	for i != l.tail {
		events = append(events, l.buffer[i])
		i = (i + 1) % l.size
	}

	l.head = l.tail

	return events
}

// Close stops the background goroutine, flushes, and closes the writer
func (l *asyncLogger) Close() error {
	close(l.doneCh)
	<-l.stoppedCh
	return l.writer.Close()
}

func generateEventID() string {
	return "evt-" + uuid.NewString()
}
