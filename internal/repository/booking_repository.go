package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/cinebook/booking/internal/booking"
	"github.com/cinebook/booking/internal/model"
)

// BookingRepo is the MySQL reservation ledger.  Bookings, tickets and
// their seat lists live in the ticket_bookings, tickets and
// ticket_seats tables.  The seat_claims table carries one row per
// (show, seat) of every non-cancelled booking under a unique key, so
// a second writer racing for the same seat fails at commit time with
// a duplicate-entry error; SaveBooking maps that to
// booking.ErrDuplicateSeat.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for callers that need to span
// transactions across repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// bookingCols is the canonical select list for booking rows.  The
// booking_date DATE column is formatted back to "2006-01-02" so the
// model carries the same string the caller sent.
const bookingCols = `b.id, b.show_id, DATE_FORMAT(b.booking_date, '%Y-%m-%d'),
       b.transaction_id, b.payment_reference, b.transaction_mode,
       b.transaction_status, b.total_cost, b.customer_id`

// SaveBooking inserts the booking when its ID is zero and fully
// replaces the stored record otherwise.  Booking, ticket, seat list
// and seat claims are written in a single transaction; nothing is
// observable half-written.
func (r *BookingRepo) SaveBooking(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if b.ID == 0 {
		err = r.insertTx(ctx, tx, b)
	} else {
		err = r.replaceTx(ctx, tx, b)
	}
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("%w: %v", booking.ErrDuplicateSeat, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("%w: %v", booking.ErrDuplicateSeat, err)
		}
		return err
	}
	committed = true
	return nil
}

func (r *BookingRepo) insertTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO ticket_bookings
	           (show_id, booking_date, transaction_id, payment_reference, transaction_mode, transaction_status, total_cost, customer_id)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		b.ShowID, b.BookingDate, b.TransactionID, nullableString(b.PaymentReference),
		b.TransactionMode, b.TransactionStatus, b.TotalCost, b.CustomerID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	if err := r.insertTicketTx(ctx, tx, b); err != nil {
		return err
	}
	return r.writeClaimsTx(ctx, tx, b)
}

func (r *BookingRepo) replaceTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `UPDATE ticket_bookings
	           SET show_id = ?, booking_date = ?, transaction_id = ?, payment_reference = ?,
	               transaction_mode = ?, transaction_status = ?, total_cost = ?, customer_id = ?
	           WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q,
		b.ShowID, b.BookingDate, b.TransactionID, nullableString(b.PaymentReference),
		b.TransactionMode, b.TransactionStatus, b.TotalCost, b.CustomerID, b.ID); err != nil {
		return err
	}
	// Full replace: the old ticket and its seats go away, the ticket
	// on the booking is what remains.  The FK cascade removes
	// ticket_seats.
	if _, err := tx.ExecContext(ctx, `DELETE FROM tickets WHERE booking_id = ?`, b.ID); err != nil {
		return err
	}
	if err := r.insertTicketTx(ctx, tx, b); err != nil {
		return err
	}
	return r.writeClaimsTx(ctx, tx, b)
}

func (r *BookingRepo) insertTicketTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	t := b.Ticket
	if t == nil {
		return nil
	}
	var res sql.Result
	var err error
	if t.ID == 0 {
		const q = `INSERT INTO tickets (booking_id, no_of_seats, booking_ref, is_active) VALUES (?, ?, ?, ?)`
		res, err = tx.ExecContext(ctx, q, b.ID, t.NoOfSeats, t.BookingRef, t.Active)
	} else {
		const q = `INSERT INTO tickets (id, booking_id, no_of_seats, booking_ref, is_active) VALUES (?, ?, ?, ?, ?)`
		res, err = tx.ExecContext(ctx, q, t.ID, b.ID, t.NoOfSeats, t.BookingRef, t.Active)
	}
	if err != nil {
		return err
	}
	if t.ID == 0 {
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		t.ID = uint64(id)
	}
	if len(t.SeatNumbers) == 0 {
		return nil
	}
	q := `INSERT INTO ticket_seats (ticket_id, seat_label, position) VALUES `
	args := make([]interface{}, 0, len(t.SeatNumbers)*3)
	for i, seat := range t.SeatNumbers {
		if i > 0 {
			q += ","
		}
		q += "(?, ?, ?)"
		args = append(args, t.ID, seat, i)
	}
	_, err = tx.ExecContext(ctx, q, args...)
	return err
}

// writeClaimsTx rebuilds the booking's seat claims.  Claims exist
// only while the booking is not cancelled; cancelling frees the
// seats for rebooking the moment the transaction commits.
func (r *BookingRepo) writeClaimsTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM seat_claims WHERE booking_id = ?`, b.ID); err != nil {
		return err
	}
	if strings.EqualFold(b.TransactionStatus, model.StatusCancelled) {
		return nil
	}
	if b.Ticket == nil || len(b.Ticket.SeatNumbers) == 0 {
		return nil
	}
	q := `INSERT INTO seat_claims (show_id, seat_label, booking_id) VALUES `
	args := make([]interface{}, 0, len(b.Ticket.SeatNumbers)*3)
	for i, seat := range b.Ticket.SeatNumbers {
		if i > 0 {
			q += ","
		}
		q += "(?, ?, ?)"
		args = append(args, b.ShowID, seat, b.ID)
	}
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// FindBookingByID returns the booking with its ticket, or nil when no
// row matches.
func (r *BookingRepo) FindBookingByID(ctx context.Context, id uint64) (*model.Booking, error) {
	list, err := r.listBookings(ctx, `WHERE b.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// FindAllBookings returns every booking in the ledger.
func (r *BookingRepo) FindAllBookings(ctx context.Context) ([]*model.Booking, error) {
	return r.listBookings(ctx, ``)
}

// FindBookingsByShow returns the bookings for one show.
func (r *BookingRepo) FindBookingsByShow(ctx context.Context, showID uint64) ([]*model.Booking, error) {
	return r.listBookings(ctx, `WHERE b.show_id = ?`, showID)
}

// FindBookingsByMovie joins through shows to return the bookings for
// every show of the movie.
func (r *BookingRepo) FindBookingsByMovie(ctx context.Context, movieID uint64) ([]*model.Booking, error) {
	return r.listBookings(ctx, `JOIN shows s ON s.id = b.show_id WHERE s.movie_id = ?`, movieID)
}

// FindBookingsByDate returns bookings whose booking date exactly
// matches the given "2006-01-02" date.
func (r *BookingRepo) FindBookingsByDate(ctx context.Context, date string) ([]*model.Booking, error) {
	return r.listBookings(ctx, `WHERE b.booking_date = ?`, date)
}

// FindBookingsByCustomer returns the bookings owned by one customer.
func (r *BookingRepo) FindBookingsByCustomer(ctx context.Context, customerID uint64) ([]*model.Booking, error) {
	return r.listBookings(ctx, `WHERE b.customer_id = ?`, customerID)
}

// listBookings runs the shared booking select with an optional
// where/join suffix, then loads tickets and seat lists for the whole
// result set in two further queries.
func (r *BookingRepo) listBookings(ctx context.Context, suffix string, args ...interface{}) ([]*model.Booking, error) {
	q := `SELECT ` + bookingCols + ` FROM ticket_bookings b ` + suffix
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]*model.Booking, 0)
	index := make(map[uint64]*model.Booking)
	for rows.Next() {
		var b model.Booking
		var payRef sql.NullString
		if err := rows.Scan(
			&b.ID, &b.ShowID, &b.BookingDate, &b.TransactionID, &payRef,
			&b.TransactionMode, &b.TransactionStatus, &b.TotalCost, &b.CustomerID,
		); err != nil {
			return nil, err
		}
		if payRef.Valid {
			pr := payRef.String
			b.PaymentReference = &pr
		}
		index[b.ID] = &b
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return bookings, nil
	}

	ids := make([]interface{}, 0, len(bookings))
	ph := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
		ph = append(ph, "?")
	}
	in := strings.Join(ph, ",")

	ticketQ := `SELECT t.id, t.booking_id, t.no_of_seats, t.booking_ref, t.is_active
	            FROM tickets t WHERE t.booking_id IN (` + in + `)`
	trows, err := r.db.QueryContext(ctx, ticketQ, ids...)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var t model.Ticket
		var bookingID uint64
		if err := trows.Scan(&t.ID, &bookingID, &t.NoOfSeats, &t.BookingRef, &t.Active); err != nil {
			return nil, err
		}
		t.SeatNumbers = []string{}
		if b, ok := index[bookingID]; ok {
			b.Ticket = &t
		}
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}

	seatQ := `SELECT t.booking_id, ts.seat_label
	          FROM ticket_seats ts
	          JOIN tickets t ON t.id = ts.ticket_id
	          WHERE t.booking_id IN (` + in + `)
	          ORDER BY ts.ticket_id, ts.position`
	srows, err := r.db.QueryContext(ctx, seatQ, ids...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var bookingID uint64
		var seat string
		if err := srows.Scan(&bookingID, &seat); err != nil {
			return nil, err
		}
		if b, ok := index[bookingID]; ok && b.Ticket != nil {
			b.Ticket.SeatNumbers = append(b.Ticket.SeatNumbers, seat)
		}
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// ReservedSeatLabels returns the seat labels of every non-cancelled
// booking for the show.
func (r *BookingRepo) ReservedSeatLabels(ctx context.Context, showID uint64) ([]string, error) {
	const q = `SELECT ts.seat_label
	           FROM ticket_seats ts
	           JOIN tickets t ON t.id = ts.ticket_id
	           JOIN ticket_bookings b ON b.id = t.booking_id
	           WHERE b.show_id = ? AND UPPER(b.transaction_status) <> 'CANCELLED'`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	labels := make([]string, 0)
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

// AggregateByMovie groups non-cancelled bookings per movie, sorted by
// movie name ascending.
func (r *BookingRepo) AggregateByMovie(ctx context.Context) ([]model.MovieBookingSummary, error) {
	const q = `SELECT m.id, m.name, COUNT(b.id), COALESCE(SUM(t.no_of_seats), 0), COALESCE(SUM(b.total_cost), 0)
	           FROM ticket_bookings b
	           JOIN shows s ON s.id = b.show_id
	           JOIN movies m ON m.id = s.movie_id
	           JOIN tickets t ON t.booking_id = b.id
	           WHERE UPPER(b.transaction_status) <> 'CANCELLED'
	           GROUP BY m.id, m.name
	           ORDER BY m.name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.MovieBookingSummary, 0)
	for rows.Next() {
		var s model.MovieBookingSummary
		if err := rows.Scan(&s.MovieID, &s.MovieName, &s.TotalBookings, &s.TotalSeats, &s.TotalRevenue); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SumCostForBooking sums total_cost over the matching booking rows;
// 0 when none match.
func (r *BookingRepo) SumCostForBooking(ctx context.Context, id uint64) (float64, error) {
	const q = `SELECT COALESCE(SUM(total_cost), 0) FROM ticket_bookings WHERE id = ?`
	var sum float64
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}

func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
