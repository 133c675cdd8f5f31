package events

import (
	"context"
	"time"
)

// Topics
const (
	TopicResults = "records.results"
	TopicUsers   = "records.users"
)

// Event types
const (
	TypeResultCreated  = "result.created"
	TypeResultUpdated  = "result.updated"
	TypeResultDeleted  = "result.deleted"
	TypeResultDetached = "result.detached"

	TypeUserStatusChanged = "user.status_changed"
)

// Source identifies this service in published events.
const Source = "records-service"

// Event is the envelope published to the message broker.
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Source     string      `json:"source"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// ResultEventData describes a mutation of an academic result.
type ResultEventData struct {
	Resource string `json:"resource"` // publication, award, recognition, event
	ResultID uint   `json:"result_id"`
	ActorID  uint   `json:"actor_id"`
}

// UserStatusEventData describes an account being enabled or disabled.
type UserStatusEventData struct {
	UserID    uint `json:"user_id"`
	IsEnabled bool `json:"is_enabled"`
	ActorID   uint `json:"actor_id"`
}

// EventPublisher publishes domain events. Publishing is best effort: services
// log failures but do not roll back the transaction that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// TopicFor routes an event type to its topic.
func TopicFor(eventType string) string {
	switch eventType {
	case TypeUserStatusChanged:
		return TopicUsers
	default:
		return TopicResults
	}
}
