// Package audit provides an asynchronous trail of authorization decisions.
package audit

import (
	"time"
)

// EventType represents the type of audit event
type EventType string

const (
	EventTypeDecision       EventType = "authz_decision"
	EventTypeSystemStartup  EventType = "system_startup"
	EventTypeSystemShutdown EventType = "system_shutdown"
)

// Event represents a generic audit event
type Event struct {
	Timestamp time.Time              `json:"timestamp"`
	EventType EventType              `json:"event_type"`
	EventID   string                 `json:"event_id"`
	RequestID string                 `json:"request_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// DecisionEvent captures a single authorization evaluation
type DecisionEvent struct {
	Timestamp   time.Time   `json:"timestamp"`
	EventType   EventType   `json:"event_type"`
	EventID     string      `json:"event_id"`
	RequestID   string      `json:"request_id,omitempty"`
	Subject     string      `json:"subject,omitempty"`
	Policy      string      `json:"policy"`
	Effect      string      `json:"effect"`
	Reasons     []string    `json:"reasons,omitempty"`
	Performance Performance `json:"performance"`
}

// Performance contains performance metrics
type Performance struct {
	DurationUs int64 `json:"duration_us"`
}
