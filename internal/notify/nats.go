package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const flushTimeout = 5 * time.Second

// publisher is the part of *nats.Conn the notifier uses.
type publisher interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

// NATSNotifier publishes events as JSON to "<subject>.<event type>".
type NATSNotifier struct {
	conn    publisher
	subject string
}

// NewNATSNotifier connects to the NATS server at url.
func NewNATSNotifier(url, subject string) (*NATSNotifier, error) {
	conn, err := nats.Connect(url,
		nats.Name("appflowbuild"),
		nats.Timeout(flushTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	slog.Debug("NATS notifier connected", "url", url, "subject", subject)
	return newNATSNotifier(conn, subject), nil
}

func newNATSNotifier(conn publisher, subject string) *NATSNotifier {
	return &NATSNotifier{conn: conn, subject: subject}
}

// Subject returns the subject ev is published on.
func (n *NATSNotifier) Subject(ev Event) string {
	return n.subject + "." + string(ev.Type)
}

// Notify publishes ev. A zero timestamp is set to the current time.
func (n *NATSNotifier) Notify(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := n.conn.Publish(n.Subject(ev), data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	slog.Debug("Published build event", "subject", n.Subject(ev), "job_id", ev.JobID, "state", ev.State)
	return nil
}

// Close flushes pending events and closes the connection.
func (n *NATSNotifier) Close() error {
	err := n.conn.FlushTimeout(flushTimeout)
	n.conn.Close()
	if err != nil {
		return fmt.Errorf("failed to flush events: %w", err)
	}
	return nil
}
