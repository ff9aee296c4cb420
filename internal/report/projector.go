// Package report builds read-only, denormalized projections over the
// reservation ledger for customer-facing booking history.  Nothing in
// this package mutates the ledger.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cinebook/booking/internal/booking"
	"github.com/cinebook/booking/internal/model"
)

// TicketView is one booking joined with its ticket, show, movie,
// theatre and screen.  Reference fields that cannot be resolved are
// left absent rather than failing the projection: a vanished show or
// movie degrades the view, it does not abort it.
type TicketView struct {
	BookingID         uint64     `json:"booking_id"`
	TicketID          *uint64    `json:"ticket_id,omitempty"`
	BookingDate       string     `json:"booking_date,omitempty"`
	BookingReference  *int       `json:"booking_reference,omitempty"`
	TransactionID     int        `json:"transaction_id"`
	TransactionMode   string     `json:"transaction_mode"`
	TransactionStatus string     `json:"transaction_status"`
	PaymentReference  *string    `json:"payment_reference,omitempty"`
	TotalCost         float64    `json:"total_cost"`
	SeatNumbers       []string   `json:"seat_numbers"`
	SeatCount         int        `json:"seat_count"`
	ShowID            *uint64    `json:"show_id,omitempty"`
	ShowName          *string    `json:"show_name,omitempty"`
	ShowStartTime     *time.Time `json:"show_start_time,omitempty"`
	ShowEndTime       *time.Time `json:"show_end_time,omitempty"`
	MovieID           *uint64    `json:"movie_id,omitempty"`
	MovieName         *string    `json:"movie_name,omitempty"`
	MovieGenre        *string    `json:"movie_genre,omitempty"`
	Language          *string    `json:"language,omitempty"`
	MovieImageURL     *string    `json:"movie_image_url,omitempty"`
	TheatreID         *uint64    `json:"theatre_id,omitempty"`
	TheatreName       *string    `json:"theatre_name,omitempty"`
	TheatreCity       *string    `json:"theatre_city,omitempty"`
	ScreenID          *uint64    `json:"screen_id,omitempty"`
	ScreenName        *string    `json:"screen_name,omitempty"`
}

// Projector assembles TicketViews from the ledger and the external
// catalog/customer stores.
type Projector struct {
	ledger    booking.Ledger
	catalog   booking.CatalogStore
	customers booking.CustomerStore
}

// NewProjector constructs a Projector and panics if any dependency is nil.
func NewProjector(ledger booking.Ledger, catalog booking.CatalogStore, customers booking.CustomerStore) *Projector {
	if ledger == nil || catalog == nil || customers == nil {
		panic("nil store passed to NewProjector")
	}
	return &Projector{ledger: ledger, catalog: catalog, customers: customers}
}

// FindBookingsForCustomer returns every booking owned by the customer
// as a TicketView, ordered by show start time ascending (views with
// no resolvable start time last), then booking date ascending (empty
// dates last), then booking id ascending.  A customer with no
// bookings yields an empty slice; an unknown customer id is an error.
func (p *Projector) FindBookingsForCustomer(ctx context.Context, customerID uint64) ([]TicketView, error) {
	ok, err := p.customers.CustomerExists(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: customer %d", booking.ErrNotFound, customerID)
	}

	bookings, err := p.ledger.FindBookingsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	views := make([]TicketView, 0, len(bookings))
	for _, b := range bookings {
		v, err := p.buildView(ctx, b)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}

	sort.SliceStable(views, func(i, j int) bool { return viewLess(&views[i], &views[j]) })
	return views, nil
}

// ViewForBooking denormalizes a single booking by id.  Used by the
// ticket export endpoints, which render one booking at a time.
func (p *Projector) ViewForBooking(ctx context.Context, bookingID uint64) (TicketView, error) {
	b, err := p.ledger.FindBookingByID(ctx, bookingID)
	if err != nil {
		return TicketView{}, err
	}
	if b == nil {
		return TicketView{}, fmt.Errorf("%w: booking %d", booking.ErrNotFound, bookingID)
	}
	return p.buildView(ctx, b)
}

// buildView denormalizes one booking.  Catalog absences leave fields
// nil; only genuine store failures propagate.
func (p *Projector) buildView(ctx context.Context, b *model.Booking) (TicketView, error) {
	v := TicketView{
		BookingID:         b.ID,
		BookingDate:       b.BookingDate,
		TransactionID:     b.TransactionID,
		TransactionMode:   b.TransactionMode,
		TransactionStatus: b.TransactionStatus,
		PaymentReference:  b.PaymentReference,
		TotalCost:         b.TotalCost,
	}
	if t := b.Ticket; t != nil {
		tid := t.ID
		ref := t.BookingRef
		v.TicketID = &tid
		v.BookingReference = &ref
		v.SeatNumbers = t.SeatNumbers
		v.SeatCount = t.NoOfSeats
	}

	show, err := p.catalog.GetShow(ctx, b.ShowID)
	if err != nil {
		return TicketView{}, err
	}
	if show == nil {
		return v, nil
	}
	sid := show.ID
	name := show.Name
	start, end := show.StartTime, show.EndTime
	v.ShowID = &sid
	v.ShowName = &name
	if !start.IsZero() {
		v.ShowStartTime = &start
	}
	if !end.IsZero() {
		v.ShowEndTime = &end
	}

	if show.MovieID != nil {
		movie, err := p.catalog.GetMovie(ctx, *show.MovieID)
		if err != nil {
			return TicketView{}, err
		}
		if movie != nil {
			v.MovieID = &movie.ID
			v.MovieName = &movie.Name
			v.MovieGenre = &movie.Genre
			v.Language = &movie.Language
			v.MovieImageURL = &movie.ImageURL
		}
	}

	screen, err := p.catalog.GetScreen(ctx, show.ScreenID)
	if err != nil {
		return TicketView{}, err
	}
	if screen != nil {
		v.ScreenID = &screen.ID
		v.ScreenName = &screen.Name
	}

	// Older show rows may lack a theatre reference; fall back to the
	// screen's theatre when the show's own is unusable.
	theatreID := show.TheatreID
	if theatreID == 0 && screen != nil {
		theatreID = screen.TheatreID
	}
	if theatreID != 0 {
		theatre, err := p.catalog.GetTheatre(ctx, theatreID)
		if err != nil {
			return TicketView{}, err
		}
		if theatre != nil {
			v.TheatreID = &theatre.ID
			v.TheatreName = &theatre.Name
			v.TheatreCity = &theatre.City
		}
	}
	return v, nil
}

// viewLess orders views by show start time, booking date, booking id.
// Missing show start times and empty booking dates sort last so that
// resolvable history stays at the front of the listing.
func viewLess(a, b *TicketView) bool {
	switch {
	case a.ShowStartTime != nil && b.ShowStartTime == nil:
		return true
	case a.ShowStartTime == nil && b.ShowStartTime != nil:
		return false
	case a.ShowStartTime != nil && b.ShowStartTime != nil:
		if !a.ShowStartTime.Equal(*b.ShowStartTime) {
			return a.ShowStartTime.Before(*b.ShowStartTime)
		}
	}
	switch {
	case a.BookingDate != "" && b.BookingDate == "":
		return true
	case a.BookingDate == "" && b.BookingDate != "":
		return false
	case a.BookingDate != b.BookingDate:
		return a.BookingDate < b.BookingDate
	}
	return a.BookingID < b.BookingID
}
