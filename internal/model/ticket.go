package model

// Ticket is the seat-list artifact owned by exactly one booking.  It
// is only ever created as part of booking creation and shares the
// booking's lifecycle; cancelling a booking flips the booking's
// status but keeps the ticket row intact.
//
// Fields:
//  ID          – primary key identifier.
//  NoOfSeats   – number of seats on the ticket (= len(SeatNumbers)).
//  SeatNumbers – ordered, normalized seat labels, unique within the ticket.
//  BookingRef  – generated 7-digit booking reference, distinct from the
//                booking's transaction id.
//  Active      – whether the ticket is still valid.
type Ticket struct {
	ID          uint64   `json:"ticket_id"`
	NoOfSeats   int      `json:"no_of_seats"`
	SeatNumbers []string `json:"seat_numbers"`
	BookingRef  int      `json:"booking_ref"`
	Active      bool     `json:"active"`
}
