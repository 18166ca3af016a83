package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEntityCreated EventType = "entity_created"
	EventEntityUpdated EventType = "entity_updated"
	EventEntityDeleted EventType = "entity_deleted"
)

// Resource names the entity type an event refers to.
type Resource string

const (
	ResourceCategory   Resource = "category"
	ResourceProduct    Resource = "product"
	ResourceUser       Resource = "user"
	ResourceCredential Resource = "credential"
)

// Event represents a lifecycle change emitted by services.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Resource   Resource  `json:"resource"`
	ResourceID int       `json:"resource_id"`
	Timestamp  time.Time `json:"timestamp"`
	Payload    any       `json:"payload,omitempty"`
}
