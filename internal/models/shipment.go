package models

import (
	"time"

	"github.com/google/uuid"
)

// Shipment statuses form a closed, forward-only state machine.
const (
	StatusCreated        = "created"
	StatusPickedUp       = "picked_up"
	StatusInTransit      = "in_transit"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

// statusTransitions maps each status to the set of statuses it may move to.
// delivered and cancelled are terminal.
var statusTransitions = map[string][]string{
	StatusCreated:        {StatusPickedUp, StatusCancelled},
	StatusPickedUp:       {StatusInTransit, StatusCancelled},
	StatusInTransit:      {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// ValidShipmentStatus reports whether status is part of the enumeration.
func ValidShipmentStatus(status string) bool {
	_, ok := statusTransitions[status]
	return ok
}

// CanTransition reports whether a shipment may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TerminalStatus reports whether no further transitions are allowed.
func TerminalStatus(status string) bool {
	return len(statusTransitions[status]) == 0 && ValidShipmentStatus(status)
}

type Address struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Line1   string `json:"line1"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type Parcel struct {
	Weight float64  `json:"weight"`
	Length *float64 `json:"length,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

type Shipment struct {
	ID                uuid.UUID `json:"id" db:"id"`
	TenantID          uuid.UUID `json:"tenant_id" db:"tenant_id"`
	TrackingNumber    string    `json:"tracking_number" db:"tracking_number"`
	Sender            Address   `json:"sender" db:"sender"`
	Receiver          Address   `json:"receiver" db:"receiver"`
	Parcel            Parcel    `json:"parcel" db:"parcel"`
	ServiceType       string    `json:"service_type" db:"service_type"`
	Status            string    `json:"status" db:"status"`
	EstimatedDelivery time.Time `json:"estimated_delivery" db:"estimated_delivery"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// ShipmentEvent is one row of the append-only status audit trail.
type ShipmentEvent struct {
	ID             uuid.UUID `json:"id" db:"id"`
	TenantID       uuid.UUID `json:"-" db:"tenant_id"`
	TrackingNumber string    `json:"tracking_number" db:"tracking_number"`
	Status         string    `json:"status" db:"status"`
	Location       string    `json:"location" db:"location"`
	Notes          *string   `json:"notes,omitempty" db:"notes"`
	Timestamp      time.Time `json:"timestamp" db:"timestamp"`
}

// PublicTracking is the reduced projection returned by the public tracking
// endpoint. It never carries sender/receiver details or the tenant id.
type PublicTracking struct {
	TrackingNumber    string                `json:"tracking_number"`
	Status            string                `json:"status"`
	ServiceType       string                `json:"service_type"`
	EstimatedDelivery time.Time             `json:"estimated_delivery"`
	Events            []PublicTrackingEvent `json:"events"`
}

type PublicTrackingEvent struct {
	Status    string    `json:"status"`
	Location  string    `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}
