package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeCreated      EventType = "created"
	EventTypeUpdated      EventType = "updated"
	EventTypeDeleted      EventType = "deleted"
	EventTypeRestored     EventType = "restored"
	EventTypeRepositioned EventType = "repositioned"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeAccount   EntityType = "account"
	EntityTypeCategory  EntityType = "category"
	EntityTypeCurrency  EntityType = "currency"
	EntityTypeBudget    EntityType = "budget"
	EntityTypeOperation EntityType = "operation"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "account.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "account"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Created creates an <entity>.created event
func Created(entity EntityType, payload interface{}) Event {
	return NewEvent(EventTypeCreated, entity, payload)
}

// Updated creates an <entity>.updated event
func Updated(entity EntityType, payload interface{}) Event {
	return NewEvent(EventTypeUpdated, entity, payload)
}

// Deleted creates an <entity>.deleted event
func Deleted(entity EntityType, payload interface{}) Event {
	return NewEvent(EventTypeDeleted, entity, payload)
}

// Restored creates an <entity>.restored event
func Restored(entity EntityType, payload interface{}) Event {
	return NewEvent(EventTypeRestored, entity, payload)
}

// Repositioned creates an <entity>.repositioned event. The payload carries
// the full reordered active list so clients can redraw without a refetch.
func Repositioned(entity EntityType, payload interface{}) Event {
	return NewEvent(EventTypeRepositioned, entity, payload)
}
