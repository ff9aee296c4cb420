package booking

import (
	"context"

	"github.com/cinebook/booking/internal/model"
)

// Ledger is the durable store of booking + ticket records.  It is the
// single shared mutable resource of the engine and is mutated
// exclusively through SaveBooking.
//
// SaveBooking inserts when b.ID is zero and fully replaces the stored
// record otherwise; booking and ticket are always written in one
// transaction.  Implementations must enforce a uniqueness constraint
// over (show, seat label) for non-cancelled bookings and return
// ErrDuplicateSeat when a write violates it: the pre-write conflict
// check in the orchestrator is not atomic with the write, so the
// constraint is the final defense against two concurrent bookers
// both passing the check.
type Ledger interface {
	SaveBooking(ctx context.Context, b *model.Booking) error
	FindBookingByID(ctx context.Context, id uint64) (*model.Booking, error)
	FindAllBookings(ctx context.Context) ([]*model.Booking, error)
	FindBookingsByShow(ctx context.Context, showID uint64) ([]*model.Booking, error)
	FindBookingsByMovie(ctx context.Context, movieID uint64) ([]*model.Booking, error)
	FindBookingsByDate(ctx context.Context, date string) ([]*model.Booking, error)
	FindBookingsByCustomer(ctx context.Context, customerID uint64) ([]*model.Booking, error)

	// ReservedSeatLabels returns every seat label appearing in any
	// ticket of a booking for the show whose transaction status is
	// not CANCELLED (case-insensitive compare).
	ReservedSeatLabels(ctx context.Context, showID uint64) ([]string, error)

	// AggregateByMovie returns one summary per movie with at least
	// one non-cancelled booking, sorted by movie name ascending.
	AggregateByMovie(ctx context.Context) ([]model.MovieBookingSummary, error)

	// SumCostForBooking returns the summed total cost for the
	// booking, or 0 when no booking matches.  Absence is not an
	// error.
	SumCostForBooking(ctx context.Context, id uint64) (float64, error)
}

// CatalogStore provides read-only access to shows, movies, screens
// and theatres.  Absence is reported as a nil record, never as an
// error.
type CatalogStore interface {
	GetShow(ctx context.Context, id uint64) (*model.Show, error)
	GetMovie(ctx context.Context, id uint64) (*model.Movie, error)
	GetScreen(ctx context.Context, id uint64) (*model.Screen, error)
	GetTheatre(ctx context.Context, id uint64) (*model.Theatre, error)
}

// CustomerStore provides read-only customer identity lookups.
type CustomerStore interface {
	GetCustomer(ctx context.Context, id uint64) (*model.Customer, error)
	CustomerExists(ctx context.Context, id uint64) (bool, error)
}

// ListFilter narrows ListBookings to one criterion.  At most one
// field should be set; when several are set the first of MovieID,
// Date, ShowID wins.  A zero filter lists everything.
type ListFilter struct {
	MovieID *uint64
	Date    *string // "2006-01-02"
	ShowID  *uint64
}
