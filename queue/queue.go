// Package queue decouples the audit ledger from the scoring aggregator.
// The ledger publishes a typed event for every accepted audit request and
// the aggregator pulls from the queue as a consumer, so analysis never
// runs inside the request path.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Event types published by the engine.
const (
	EventAuditRequested = "audit.requested"
)

// ErrClosed is returned when publishing to or consuming from a closed queue.
var ErrClosed = errors.New("queue closed")

// Event is one typed message on the queue.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEvent builds an event with a fresh id and the payload marshaled to
// JSON.
func NewEvent(eventType string, payload interface{}) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().UTC(),
	}, nil
}

// Unmarshal decodes the event payload into v.
func (e *Event) Unmarshal(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// Queue is the event transport port.
type Queue interface {
	// Publish enqueues an event, blocking while the queue is full.
	Publish(ctx context.Context, event Event) error

	// Consume returns the channel events are delivered on. The channel
	// is not closed on shutdown; consumers stop through their context.
	Consume(ctx context.Context) (<-chan Event, error)

	// Close stops the queue. Pending events may still be drained by
	// consumers.
	Close() error
}
