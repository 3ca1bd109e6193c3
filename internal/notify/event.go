// Package notify publishes build lifecycle events so other systems can follow
// a run without reading its log.
package notify

import (
	"context"
	"time"
)

// EventType names a point in the build lifecycle.
type EventType string

const (
	EventDispatched   EventType = "dispatched"
	EventStateChanged EventType = "state_changed"
	EventFinished     EventType = "finished"
	EventArtifact     EventType = "artifact"
)

// Event is a build lifecycle notification.
type Event struct {
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
	AppID     string    `json:"app_id"`
	JobID     int64     `json:"job_id,omitempty"`
	Platform  string    `json:"platform,omitempty"`
	State     string    `json:"state,omitempty"`
	Artifact  string    `json:"artifact,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier delivers events. Delivery failures are reported to the caller,
// which decides whether they matter; the run itself never depends on them.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
	Close() error
}

// NoopNotifier discards every event.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Event) error { return nil }
func (NoopNotifier) Close() error                        { return nil }
