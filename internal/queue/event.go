// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// Event types carried on the booking.events queue.
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is published after a booking is created or cancelled.
// It contains enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type BookingEvent struct {
	EventID     string   `json:"event_id"`
	Type        string   `json:"type"`
	BookingID   uint64   `json:"booking_id"`
	CustomerID  uint64   `json:"customer_id"`
	ShowID      uint64   `json:"show_id"`
	BookingRef  int      `json:"booking_ref,omitempty"`
	SeatLabels  []string `json:"seats,omitempty"`
	TotalCost   float64  `json:"total_cost"`
	BookingDate string   `json:"booking_date,omitempty"`
	OccurredAt  string   `json:"occurred_at"`
}

// NewBookingEvent stamps a fresh event id and occurrence time.
func NewBookingEvent(typ string) BookingEvent {
	return BookingEvent{
		EventID:    uuid.NewString(),
		Type:       typ,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
