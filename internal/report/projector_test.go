package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinebook/booking/internal/booking"
	"github.com/cinebook/booking/internal/model"
	"github.com/cinebook/booking/internal/report"
)

// Stubs embed the store interfaces so only the methods the projector
// touches need implementing.

type stubLedger struct {
	booking.Ledger
	bookings []*model.Booking
}

func (s *stubLedger) FindBookingsByCustomer(_ context.Context, customerID uint64) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range s.bookings {
		if b.CustomerID == customerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubLedger) FindBookingByID(_ context.Context, id uint64) (*model.Booking, error) {
	for _, b := range s.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

type stubCatalog struct {
	booking.CatalogStore
	shows    map[uint64]*model.Show
	movies   map[uint64]*model.Movie
	screens  map[uint64]*model.Screen
	theatres map[uint64]*model.Theatre
	showErr  error
}

func (s *stubCatalog) GetShow(_ context.Context, id uint64) (*model.Show, error) {
	if s.showErr != nil {
		return nil, s.showErr
	}
	return s.shows[id], nil
}

func (s *stubCatalog) GetMovie(_ context.Context, id uint64) (*model.Movie, error) {
	return s.movies[id], nil
}

func (s *stubCatalog) GetScreen(_ context.Context, id uint64) (*model.Screen, error) {
	return s.screens[id], nil
}

func (s *stubCatalog) GetTheatre(_ context.Context, id uint64) (*model.Theatre, error) {
	return s.theatres[id], nil
}

type stubCustomers struct {
	booking.CustomerStore
	known map[uint64]bool
}

func (s *stubCustomers) CustomerExists(_ context.Context, id uint64) (bool, error) {
	return s.known[id], nil
}

func mkBooking(id uint64, customerID uint64, showID uint64, date string, ref int, seats ...string) *model.Booking {
	return &model.Booking{
		ID:                id,
		ShowID:            showID,
		BookingDate:       date,
		TransactionID:     123456,
		TransactionMode:   "ONLINE",
		TransactionStatus: model.StatusConfirmed,
		TotalCost:         100,
		CustomerID:        customerID,
		Ticket: &model.Ticket{
			ID:          id * 10,
			NoOfSeats:   len(seats),
			SeatNumbers: seats,
			BookingRef:  ref,
			Active:      true,
		},
	}
}

func fullCatalog() *stubCatalog {
	movieID := uint64(7)
	return &stubCatalog{
		shows: map[uint64]*model.Show{
			1: {
				ID:        1,
				Name:      "Evening Show",
				StartTime: time.Date(2025, 6, 20, 19, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2025, 6, 20, 21, 30, 0, 0, time.UTC),
				ScreenID:  3,
				TheatreID: 2,
				MovieID:   &movieID,
			},
		},
		movies: map[uint64]*model.Movie{
			7: {ID: 7, Name: "Inception", Genre: "SciFi", Language: "English", ImageURL: "http://img"},
		},
		screens: map[uint64]*model.Screen{
			3: {ID: 3, TheatreID: 2, Name: "Screen 3"},
		},
		theatres: map[uint64]*model.Theatre{
			2: {ID: 2, Name: "Grand", City: "Pune"},
		},
	}
}

func TestFindBookingsForCustomer_FullView(t *testing.T) {
	ledger := &stubLedger{bookings: []*model.Booking{
		mkBooking(1, 42, 1, "2025-06-15", 1234567, "A1", "A2"),
	}}
	p := report.NewProjector(ledger, fullCatalog(), &stubCustomers{known: map[uint64]bool{42: true}})

	views, err := p.FindBookingsForCustomer(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, views, 1)

	v := views[0]
	assert.Equal(t, uint64(1), v.BookingID)
	require.NotNil(t, v.TicketID)
	assert.Equal(t, uint64(10), *v.TicketID)
	require.NotNil(t, v.BookingReference)
	assert.Equal(t, 1234567, *v.BookingReference)
	assert.Equal(t, []string{"A1", "A2"}, v.SeatNumbers)
	assert.Equal(t, 2, v.SeatCount)
	require.NotNil(t, v.ShowName)
	assert.Equal(t, "Evening Show", *v.ShowName)
	require.NotNil(t, v.MovieName)
	assert.Equal(t, "Inception", *v.MovieName)
	require.NotNil(t, v.TheatreName)
	assert.Equal(t, "Grand", *v.TheatreName)
	require.NotNil(t, v.TheatreCity)
	assert.Equal(t, "Pune", *v.TheatreCity)
	require.NotNil(t, v.ScreenName)
	assert.Equal(t, "Screen 3", *v.ScreenName)
}

func TestFindBookingsForCustomer_UnknownCustomer(t *testing.T) {
	p := report.NewProjector(&stubLedger{}, fullCatalog(), &stubCustomers{known: map[uint64]bool{}})
	_, err := p.FindBookingsForCustomer(context.Background(), 99)
	require.ErrorIs(t, err, booking.ErrNotFound)
}

func TestFindBookingsForCustomer_Empty(t *testing.T) {
	p := report.NewProjector(&stubLedger{}, fullCatalog(), &stubCustomers{known: map[uint64]bool{42: true}})
	views, err := p.FindBookingsForCustomer(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, views)
	assert.NotNil(t, views)
}

func TestFindBookingsForCustomer_DegradesOnMissingCatalog(t *testing.T) {
	// The show vanished from the catalog: the view keeps the ledger
	// fields and leaves the reference fields absent.
	ledger := &stubLedger{bookings: []*model.Booking{
		mkBooking(1, 42, 999, "2025-06-15", 1234567, "A1"),
	}}
	p := report.NewProjector(ledger, fullCatalog(), &stubCustomers{known: map[uint64]bool{42: true}})

	views, err := p.FindBookingsForCustomer(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].ShowName)
	assert.Nil(t, views[0].MovieName)
	assert.Nil(t, views[0].TheatreName)
	assert.Equal(t, []string{"A1"}, views[0].SeatNumbers)
}

func TestFindBookingsForCustomer_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("catalog down")
	catalog := fullCatalog()
	catalog.showErr = boom
	ledger := &stubLedger{bookings: []*model.Booking{
		mkBooking(1, 42, 1, "2025-06-15", 1234567, "A1"),
	}}
	p := report.NewProjector(ledger, catalog, &stubCustomers{known: map[uint64]bool{42: true}})

	_, err := p.FindBookingsForCustomer(context.Background(), 42)
	require.ErrorIs(t, err, boom)
}

func TestFindBookingsForCustomer_Ordering(t *testing.T) {
	catalog := fullCatalog()
	movieID := uint64(7)
	catalog.shows[2] = &model.Show{
		ID:        2,
		Name:      "Matinee",
		StartTime: time.Date(2025, 6, 18, 14, 0, 0, 0, time.UTC),
		ScreenID:  3,
		TheatreID: 2,
		MovieID:   &movieID,
	}

	ledger := &stubLedger{bookings: []*model.Booking{
		// Unresolvable show: sorts last.
		mkBooking(1, 42, 999, "2025-06-10", 1000001, "A1"),
		// Later show start.
		mkBooking(2, 42, 1, "2025-06-15", 1000002, "A2"),
		// Earlier show start: sorts first.
		mkBooking(3, 42, 2, "2025-06-15", 1000003, "A3"),
		// Unresolvable show, empty date: sorts after the dated one.
		mkBooking(4, 42, 999, "", 1000004, "A4"),
	}}
	p := report.NewProjector(ledger, catalog, &stubCustomers{known: map[uint64]bool{42: true}})

	views, err := p.FindBookingsForCustomer(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, views, 4)
	assert.Equal(t, uint64(3), views[0].BookingID)
	assert.Equal(t, uint64(2), views[1].BookingID)
	assert.Equal(t, uint64(1), views[2].BookingID)
	assert.Equal(t, uint64(4), views[3].BookingID)
}

func TestViewForBooking(t *testing.T) {
	ledger := &stubLedger{bookings: []*model.Booking{
		mkBooking(1, 42, 1, "2025-06-15", 1234567, "A1"),
	}}
	p := report.NewProjector(ledger, fullCatalog(), &stubCustomers{known: map[uint64]bool{42: true}})

	v, err := p.ViewForBooking(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v.BookingID)
	require.NotNil(t, v.MovieName)
	assert.Equal(t, "Inception", *v.MovieName)

	_, err = p.ViewForBooking(context.Background(), 404)
	require.ErrorIs(t, err, booking.ErrNotFound)
}

func TestTheatreFallbackViaScreen(t *testing.T) {
	catalog := fullCatalog()
	// Show row without a theatre reference; the screen still carries one.
	catalog.shows[1].TheatreID = 0

	ledger := &stubLedger{bookings: []*model.Booking{
		mkBooking(1, 42, 1, "2025-06-15", 1234567, "A1"),
	}}
	p := report.NewProjector(ledger, catalog, &stubCustomers{known: map[uint64]bool{42: true}})

	views, err := p.FindBookingsForCustomer(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].TheatreName)
	assert.Equal(t, "Grand", *views[0].TheatreName)
}
