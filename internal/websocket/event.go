package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeDailyRecord   EntityType = "daily_record"
	EntityTypeFlourPurchase EntityType = "flour_purchase"
	EntityTypeOverhead      EntityType = "overhead"
	EntityTypeMovement      EntityType = "movement"
	EntityTypeClient        EntityType = "client"
	EntityTypeDelivery      EntityType = "delivery"
	EntityTypePayment       EntityType = "payment"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "daily_record.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "daily_record"
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

// DailyRecordCreated creates a daily_record.created event
func DailyRecordCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeDailyRecord, payload)
}

// DailyRecordDeleted creates a daily_record.deleted event
func DailyRecordDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeDailyRecord, payload)
}

// FlourPurchaseCreated creates a flour_purchase.created event
func FlourPurchaseCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeFlourPurchase, payload)
}

// OverheadUpdated creates an overhead.updated event
func OverheadUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeOverhead, payload)
}

// MovementCreated creates a movement.created event
func MovementCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeMovement, payload)
}

// ClientCreated creates a client.created event
func ClientCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeClient, payload)
}

// ClientUpdated creates a client.updated event
func ClientUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeClient, payload)
}

// DeliveryCreated creates a delivery.created event
func DeliveryCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeDelivery, payload)
}

// PaymentCreated creates a payment.created event
func PaymentCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypePayment, payload)
}
