package booking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cinebook/booking/internal/model"
)

// DateLayout is the calendar date format used for booking dates.
const DateLayout = "2006-01-02"

// Generated identifier ranges.  External consumers depend on the
// digit counts (6-digit transaction ids, 7-digit booking refs), so
// these are part of the wire contract.
const (
	txnIDMin = 100_000
	txnIDMax = 1_000_000
	refMin   = 1_000_000
	refMax   = 10_000_000
)

// maxPaymentRefLen matches the payment_reference column width.
const maxPaymentRefLen = 64

// CreateRequest carries the caller's seat selection for one show.
// BookingDate, PaymentMode and PaymentReference are optional;
// PaymentReference is the id of an externally created payment intent.
type CreateRequest struct {
	CustomerID       uint64   `json:"customer_id"`
	ShowID           uint64   `json:"show_id"`
	SeatNumbers      []string `json:"seat_numbers"`
	TotalCost        float64  `json:"total_cost"`
	BookingDate      string   `json:"booking_date,omitempty"`
	PaymentMode      string   `json:"payment_mode,omitempty"`
	PaymentReference string   `json:"payment_reference,omitempty"`
}

// Service is the booking orchestrator.  It validates requests,
// resolves seat conflicts against the ledger and persists booking +
// ticket pairs atomically.  Service is safe for concurrent use; the
// ledger's uniqueness constraint serializes conflicting writers.
type Service struct {
	ledger    Ledger
	catalog   CatalogStore
	customers CustomerStore

	mu  sync.Mutex // guards rnd
	rnd *rand.Rand
	now func() time.Time
}

// NewService constructs a Service.  rnd and now may be nil, in which
// case a time-seeded source and time.Now are used; tests pass fixed
// values to pin generated ids and dates.
func NewService(ledger Ledger, catalog CatalogStore, customers CustomerStore, rnd *rand.Rand, now func() time.Time) *Service {
	if ledger == nil || catalog == nil || customers == nil {
		panic("nil store passed to NewService")
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Service{ledger: ledger, catalog: catalog, customers: customers, rnd: rnd, now: now}
}

// ReservedSeats returns the set of normalized seat labels currently
// reserved for the show, derived from the ledger of non-cancelled
// bookings.  It has no side effects.
func (s *Service) ReservedSeats(ctx context.Context, showID uint64) (map[string]struct{}, error) {
	labels, err := s.ledger.ReservedSeatLabels(ctx, showID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(labels))
	for _, l := range NormalizeSeats(labels) {
		set[l] = struct{}{}
	}
	return set, nil
}

// CreateBooking validates the request, checks seat availability and
// persists a CONFIRMED booking with its ticket in one transaction.
// On success the returned booking carries the generated ids.
func (s *Service) CreateBooking(ctx context.Context, req *CreateRequest) (*model.Booking, error) {
	if req == nil || len(req.SeatNumbers) == 0 {
		return nil, fmt.Errorf("%w: at least one seat must be selected", ErrInvalidRequest)
	}

	seats := NormalizeSeats(req.SeatNumbers)
	if len(seats) == 0 {
		return nil, fmt.Errorf("%w: at least one seat must be selected", ErrInvalidRequest)
	}
	if hasDuplicate(seats) {
		return nil, fmt.Errorf("%w: duplicate seats selected", ErrInvalidRequest)
	}
	if len(req.PaymentReference) > maxPaymentRefLen {
		return nil, fmt.Errorf("%w: payment reference exceeds %d characters", ErrInvalidRequest, maxPaymentRefLen)
	}

	bookingDate := req.BookingDate
	if bookingDate == "" {
		bookingDate = s.now().UTC().Format(DateLayout)
	} else if _, err := time.Parse(DateLayout, bookingDate); err != nil {
		return nil, fmt.Errorf("%w: booking date must be formatted as %s", ErrInvalidRequest, DateLayout)
	}

	ok, err := s.customers.CustomerExists(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: customer %d", ErrNotFound, req.CustomerID)
	}

	show, err := s.catalog.GetShow(ctx, req.ShowID)
	if err != nil {
		return nil, err
	}
	if show == nil {
		return nil, fmt.Errorf("%w: show %d", ErrNotFound, req.ShowID)
	}

	reserved, err := s.ReservedSeats(ctx, show.ID)
	if err != nil {
		return nil, err
	}
	var unavailable []string
	for _, seat := range seats {
		if _, taken := reserved[seat]; taken {
			unavailable = append(unavailable, seat)
		}
	}
	if len(unavailable) > 0 {
		// Sorted so the message is deterministic.
		sort.Strings(unavailable)
		return nil, fmt.Errorf("%w: seats unavailable: %s", ErrConflict, strings.Join(unavailable, ", "))
	}

	if req.TotalCost <= 0 {
		return nil, fmt.Errorf("%w: total cost must be positive", ErrInvalidRequest)
	}

	// The two id ranges are disjoint (6 vs 7 digits), so the booking
	// reference is always distinct from the transaction id.
	txnID := s.randRange(txnIDMin, txnIDMax)
	ref := s.randRange(refMin, refMax)

	b := &model.Booking{
		ShowID:            show.ID,
		BookingDate:       bookingDate,
		TransactionID:     txnID,
		TransactionMode:   paymentMode(req),
		TransactionStatus: model.StatusConfirmed,
		TotalCost:         req.TotalCost,
		CustomerID:        req.CustomerID,
		Ticket: &model.Ticket{
			NoOfSeats:   len(seats),
			SeatNumbers: seats,
			BookingRef:  ref,
			Active:      true,
		},
	}
	if req.PaymentReference != "" {
		pr := req.PaymentReference
		b.PaymentReference = &pr
	}

	if err := s.ledger.SaveBooking(ctx, b); err != nil {
		if errors.Is(err, ErrDuplicateSeat) {
			// Lost the race after the availability check: report it
			// the same way a failed validation would have been.
			return nil, fmt.Errorf("%w: unable to create booking with provided data", ErrInvalidRequest)
		}
		return nil, err
	}
	return b, nil
}

// GetBooking fetches one booking with its ticket.
func (s *Service) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := s.ledger.FindBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: booking %d", ErrNotFound, id)
	}
	return b, nil
}

// UpdateBooking fully replaces an existing booking record.  The
// caller must resend the complete representation: fields left zero
// overwrite stored values, including transaction fields.
func (s *Service) UpdateBooking(ctx context.Context, b *model.Booking) (*model.Booking, error) {
	if b == nil || b.ID == 0 {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidRequest)
	}
	existing, err := s.ledger.FindBookingByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: booking %d", ErrNotFound, b.ID)
	}
	if err := s.ledger.SaveBooking(ctx, b); err != nil {
		if errors.Is(err, ErrDuplicateSeat) {
			return nil, fmt.Errorf("%w: unable to update booking with provided data", ErrInvalidRequest)
		}
		return nil, err
	}
	return b, nil
}

// CancelBooking flips the booking's transaction status to CANCELLED.
// The booking row and its ticket survive, but the ticket's seats stop
// counting as reserved as soon as the write commits.
func (s *Service) CancelBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := s.ledger.FindBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: booking %d", ErrNotFound, id)
	}
	b.TransactionStatus = model.StatusCancelled
	if err := s.ledger.SaveBooking(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ListBookings lists bookings matching the filter; see ListFilter for
// precedence.  No ordering is guaranteed.
func (s *Service) ListBookings(ctx context.Context, f ListFilter) ([]*model.Booking, error) {
	switch {
	case f.MovieID != nil:
		return s.ledger.FindBookingsByMovie(ctx, *f.MovieID)
	case f.Date != nil:
		return s.ledger.FindBookingsByDate(ctx, *f.Date)
	case f.ShowID != nil:
		return s.ledger.FindBookingsByShow(ctx, *f.ShowID)
	default:
		return s.ledger.FindAllBookings(ctx)
	}
}

// TotalCost returns the total cost recorded for a booking, or 0 when
// the booking does not exist.
func (s *Service) TotalCost(ctx context.Context, id uint64) (float64, error) {
	return s.ledger.SumCostForBooking(ctx, id)
}

// SummarizeByMovie aggregates non-cancelled bookings per movie,
// sorted by movie name ascending.
func (s *Service) SummarizeByMovie(ctx context.Context) ([]model.MovieBookingSummary, error) {
	return s.ledger.AggregateByMovie(ctx)
}

// paymentMode resolves the transaction mode: an explicit mode is
// upper-cased; otherwise a supplied payment intent implies CARD and
// everything else defaults to ONLINE.
func paymentMode(req *CreateRequest) string {
	if m := strings.TrimSpace(req.PaymentMode); m != "" {
		return strings.ToUpper(m)
	}
	if req.PaymentReference != "" {
		return "CARD"
	}
	return "ONLINE"
}

// randRange returns a random int in [lo, hi).  rand.Rand is not safe
// for concurrent use, so calls are serialized.
func (s *Service) randRange(lo, hi int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rnd.Intn(hi-lo)
}
