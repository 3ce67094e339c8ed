package model

import "time"

// ErrorResponse represents an error response structure.
type ErrorResponse struct {
	Code       int         `json:"code"`
	Message    string      `json:"message"`
	Violations []Violation `json:"violations,omitempty"`
}

// EventType identifies the kind of change carried by a ProductEvent.
type EventType string

// Product event types.
const (
	EventProductCreated EventType = "product_created"
	EventProductDeleted EventType = "product_deleted"
)

// ProductEvent is pushed to WebSocket subscribers when the catalog changes.
type ProductEvent struct {
	Type      EventType `json:"type"`
	Product   Product   `json:"product"`
	Timestamp time.Time `json:"timestamp"`
}

// NewProductEvent creates an event stamped with the current time.
func NewProductEvent(eventType EventType, p Product) ProductEvent {
	return ProductEvent{
		Type:      eventType,
		Product:   p,
		Timestamp: time.Now().UTC(),
	}
}
