// Package events defines the domain event sink consumed by use cases.
// Events are facts published after a successful state change; delivery and
// ordering guarantees belong to the chosen Publisher implementation.
package events

import (
	"context"
	"time"

	"ngx/pkg/domain"
)

// Type names a domain event.
type Type string

const (
	TypeClientCreated Type = "client_created"
	TypeClientUpdated Type = "client_updated"
	TypeClientDeleted Type = "client_deleted"
)

// Event is a plain key-value payload. Every event carries at least its type
// and timestamp; Details hold event-specific fields.
type Event struct {
	Type      Type           `json:"event_type"`
	Timestamp time.Time      `json:"timestamp"`
	ClientID  string         `json:"client_id"`
	Details   map[string]any `json:"details,omitempty"`
}

// ClientCreated records a successful client registration.
func ClientCreated(id domain.ClientID, email string, programType string, ts time.Time) Event {
	return Event{
		Type:      TypeClientCreated,
		Timestamp: ts,
		ClientID:  id.String(),
		Details: map[string]any{
			"email":        email,
			"program_type": programType,
		},
	}
}

// ClientUpdated records a successful mutation of an existing client.
func ClientUpdated(id domain.ClientID, ts time.Time) Event {
	return Event{Type: TypeClientUpdated, Timestamp: ts, ClientID: id.String()}
}

// ClientDeleted records an irreversible removal.
func ClientDeleted(id domain.ClientID, ts time.Time) Event {
	return Event{Type: TypeClientDeleted, Timestamp: ts, ClientID: id.String()}
}

// Publisher is the fire-and-forget event sink. Implementations must only be
// invoked after the state change they describe has been persisted.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	PublishBatch(ctx context.Context, events []Event) error
}
