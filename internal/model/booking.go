package model

// Booking is the unit of consistency in the reservation ledger.  It
// records one customer reserving one or more seats for one show,
// together with the financial transaction that paid for them.  A
// booking exclusively owns its Ticket: the two are created in the
// same transaction and a booking is never stored without one.
//
// TransactionStatus is compared case-insensitively; only the values
// StatusConfirmed and StatusCancelled are written by this service.
// Cancellation is a soft delete: the row survives with status
// CANCELLED and its seats stop counting as reserved.
//
// Fields:
//  ID                – primary key identifier.
//  ShowID            – show being booked.
//  BookingDate       – calendar date of the booking ("2006-01-02", UTC).
//  TransactionID     – generated 6-digit transaction identifier.
//  PaymentReference  – external payment intent reference (nil when the
//                      booking was not paid through a gateway).
//  TransactionMode   – upper-cased payment channel label (ONLINE, CARD, ...).
//  TransactionStatus – CONFIRMED or CANCELLED.
//  TotalCost         – total price for all seats, always > 0.
//  CustomerID        – customer who owns the booking.
//  Ticket            – the owned seat-list artifact (1:1).
type Booking struct {
	ID                uint64  `json:"booking_id"`
	ShowID            uint64  `json:"show_id"`
	BookingDate       string  `json:"booking_date"`
	TransactionID     int     `json:"transaction_id"`
	PaymentReference  *string `json:"payment_reference,omitempty"`
	TransactionMode   string  `json:"transaction_mode"`
	TransactionStatus string  `json:"transaction_status"`
	TotalCost         float64 `json:"total_cost"`
	CustomerID        uint64  `json:"customer_id"`
	Ticket            *Ticket `json:"ticket"`
}

// Transaction status values written by the booking engine.
const (
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)
