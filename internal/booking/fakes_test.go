package booking_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cinebook/booking/internal/booking"
	"github.com/cinebook/booking/internal/model"
)

// In-memory stores backing the service tests.  memLedger enforces the
// same uniqueness rule as the MySQL seat_claims table: at most one
// non-cancelled booking per (show, seat label).

type claimKey struct {
	showID uint64
	seat   string
}

type memLedger struct {
	mu       sync.Mutex
	seq      uint64
	tseq     uint64
	bookings map[uint64]*model.Booking
	claims   map[claimKey]uint64
	catalog  *memCatalog // resolves show -> movie for the movie queries
}

func newMemLedger(catalog *memCatalog) *memLedger {
	return &memLedger{
		bookings: map[uint64]*model.Booking{},
		claims:   map[claimKey]uint64{},
		catalog:  catalog,
	}
}

func cloneBooking(b *model.Booking) *model.Booking {
	cp := *b
	if b.PaymentReference != nil {
		pr := *b.PaymentReference
		cp.PaymentReference = &pr
	}
	if b.Ticket != nil {
		t := *b.Ticket
		t.SeatNumbers = append([]string(nil), b.Ticket.SeatNumbers...)
		cp.Ticket = &t
	}
	return &cp
}

func cancelled(b *model.Booking) bool {
	return strings.EqualFold(b.TransactionStatus, model.StatusCancelled)
}

func (l *memLedger) SaveBooking(_ context.Context, b *model.Booking) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b.ID == 0 {
		l.seq++
		b.ID = l.seq
	}
	if b.Ticket != nil && b.Ticket.ID == 0 {
		l.tseq++
		b.Ticket.ID = l.tseq
	}

	if !cancelled(b) && b.Ticket != nil {
		for _, seat := range b.Ticket.SeatNumbers {
			if owner, taken := l.claims[claimKey{b.ShowID, seat}]; taken && owner != b.ID {
				return booking.ErrDuplicateSeat
			}
		}
	}
	for k, owner := range l.claims {
		if owner == b.ID {
			delete(l.claims, k)
		}
	}
	if !cancelled(b) && b.Ticket != nil {
		for _, seat := range b.Ticket.SeatNumbers {
			l.claims[claimKey{b.ShowID, seat}] = b.ID
		}
	}
	l.bookings[b.ID] = cloneBooking(b)
	return nil
}

func (l *memLedger) FindBookingByID(_ context.Context, id uint64) (*model.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.bookings[id]
	if !ok {
		return nil, nil
	}
	return cloneBooking(b), nil
}

func (l *memLedger) list(match func(*model.Booking) bool) []*model.Booking {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]uint64, 0, len(l.bookings))
	for id := range l.bookings {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var out []*model.Booking
	for _, id := range ids {
		if b := l.bookings[id]; match(b) {
			out = append(out, cloneBooking(b))
		}
	}
	return out
}

func (l *memLedger) FindAllBookings(_ context.Context) ([]*model.Booking, error) {
	return l.list(func(*model.Booking) bool { return true }), nil
}

func (l *memLedger) FindBookingsByShow(_ context.Context, showID uint64) ([]*model.Booking, error) {
	return l.list(func(b *model.Booking) bool { return b.ShowID == showID }), nil
}

func (l *memLedger) FindBookingsByMovie(_ context.Context, movieID uint64) ([]*model.Booking, error) {
	return l.list(func(b *model.Booking) bool {
		show := l.catalog.shows[b.ShowID]
		return show != nil && show.MovieID != nil && *show.MovieID == movieID
	}), nil
}

func (l *memLedger) FindBookingsByDate(_ context.Context, date string) ([]*model.Booking, error) {
	return l.list(func(b *model.Booking) bool { return b.BookingDate == date }), nil
}

func (l *memLedger) FindBookingsByCustomer(_ context.Context, customerID uint64) ([]*model.Booking, error) {
	return l.list(func(b *model.Booking) bool { return b.CustomerID == customerID }), nil
}

func (l *memLedger) ReservedSeatLabels(_ context.Context, showID uint64) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, b := range l.bookings {
		if b.ShowID != showID || cancelled(b) || b.Ticket == nil {
			continue
		}
		out = append(out, b.Ticket.SeatNumbers...)
	}
	return out, nil
}

func (l *memLedger) AggregateByMovie(_ context.Context) ([]model.MovieBookingSummary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	byMovie := map[uint64]*model.MovieBookingSummary{}
	for _, b := range l.bookings {
		if cancelled(b) {
			continue
		}
		show := l.catalog.shows[b.ShowID]
		if show == nil || show.MovieID == nil {
			continue
		}
		movie := l.catalog.movies[*show.MovieID]
		if movie == nil {
			continue
		}
		s := byMovie[movie.ID]
		if s == nil {
			s = &model.MovieBookingSummary{MovieID: movie.ID, MovieName: movie.Name}
			byMovie[movie.ID] = s
		}
		s.TotalBookings++
		s.TotalRevenue += b.TotalCost
		if b.Ticket != nil {
			s.TotalSeats += int64(b.Ticket.NoOfSeats)
		}
	}
	out := make([]model.MovieBookingSummary, 0, len(byMovie))
	for _, s := range byMovie {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MovieName < out[j].MovieName })
	return out, nil
}

func (l *memLedger) SumCostForBooking(_ context.Context, id uint64) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.bookings[id]; ok {
		return b.TotalCost, nil
	}
	return 0, nil
}

type memCatalog struct {
	shows    map[uint64]*model.Show
	movies   map[uint64]*model.Movie
	screens  map[uint64]*model.Screen
	theatres map[uint64]*model.Theatre
	err      error // returned by every getter when set
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		shows:    map[uint64]*model.Show{},
		movies:   map[uint64]*model.Movie{},
		screens:  map[uint64]*model.Screen{},
		theatres: map[uint64]*model.Theatre{},
	}
}

func (c *memCatalog) GetShow(_ context.Context, id uint64) (*model.Show, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.shows[id], nil
}

func (c *memCatalog) GetMovie(_ context.Context, id uint64) (*model.Movie, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.movies[id], nil
}

func (c *memCatalog) GetScreen(_ context.Context, id uint64) (*model.Screen, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.screens[id], nil
}

func (c *memCatalog) GetTheatre(_ context.Context, id uint64) (*model.Theatre, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.theatres[id], nil
}

type memCustomers struct {
	customers map[uint64]*model.Customer
}

func newMemCustomers(ids ...uint64) *memCustomers {
	m := &memCustomers{customers: map[uint64]*model.Customer{}}
	for _, id := range ids {
		m.customers[id] = &model.Customer{ID: id, Name: "customer"}
	}
	return m
}

func (m *memCustomers) GetCustomer(_ context.Context, id uint64) (*model.Customer, error) {
	return m.customers[id], nil
}

func (m *memCustomers) CustomerExists(_ context.Context, id uint64) (bool, error) {
	_, ok := m.customers[id]
	return ok, nil
}
