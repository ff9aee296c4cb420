package handler // handler package contains the HTTP layer over the booking service

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinebook/booking/internal/booking"
	"github.com/cinebook/booking/internal/model"
	q "github.com/cinebook/booking/internal/queue"
	"github.com/cinebook/booking/internal/report"
	queue_publisher "github.com/cinebook/booking/internal/service"
	"github.com/cinebook/booking/internal/ticketdoc"
)

// BookingHandler wires the booking orchestrator and the read-side
// projector into Echo routes.  Publish is optional; when non-nil it is
// called after successful creates and cancels and its errors are only
// logged, never surfaced to the API caller.
type BookingHandler struct {
	Svc       *booking.Service
	Projector *report.Projector
	Publish   func(c echo.Context, ev q.BookingEvent)
}

// NewBookingHandler constructs a handler with the default broker publisher.
func NewBookingHandler(svc *booking.Service, projector *report.Projector) *BookingHandler {
	if svc == nil || projector == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{
		Svc:       svc,
		Projector: projector,
		Publish: func(c echo.Context, ev q.BookingEvent) {
			if err := queue_publisher.PublishBookingEvent(c.Request().Context(), ev); err != nil {
				log.Printf("booking: publish %s event failed: %v", ev.Type, err)
			}
		},
	}
}

// Create handles POST /v1/bookings.  The body is a seat selection for
// one show; on success it returns 201 with the stored booking and its
// generated transaction id and booking reference.
func (h *BookingHandler) Create(c echo.Context) error {
	var req booking.CreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	b, err := h.Svc.CreateBooking(c.Request().Context(), &req)
	if err != nil {
		return writeError(c, err)
	}
	h.publish(c, q.EventBookingCreated, b)
	return c.JSON(http.StatusCreated, b)
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// List handles GET /v1/bookings with optional movie_id, date and
// show_id query filters.  When multiple filters are supplied, movie_id
// wins over date, which wins over show_id.
func (h *BookingHandler) List(c echo.Context) error {
	var f booking.ListFilter
	if v := strings.TrimSpace(c.QueryParam("movie_id")); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie_id"})
		}
		f.MovieID = &id
	}
	if v := strings.TrimSpace(c.QueryParam("date")); v != "" {
		if _, err := time.Parse(booking.DateLayout, v); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		}
		f.Date = &v
	}
	if v := strings.TrimSpace(c.QueryParam("show_id")); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show_id"})
		}
		f.ShowID = &id
	}
	return h.listWith(c, f)
}

// ListByMovie handles GET /v1/bookings/movie/:movieId.
func (h *BookingHandler) ListByMovie(c echo.Context) error {
	id, err := pathID(c, "movieId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	return h.listWith(c, booking.ListFilter{MovieID: &id})
}

// ListByDate handles GET /v1/bookings/date/:date with a 2006-01-02 date.
func (h *BookingHandler) ListByDate(c echo.Context) error {
	date := c.Param("date")
	if _, err := time.Parse(booking.DateLayout, date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	return h.listWith(c, booking.ListFilter{Date: &date})
}

// ListByShow handles GET /v1/bookings/show/:showId.
func (h *BookingHandler) ListByShow(c echo.Context) error {
	id, err := pathID(c, "showId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	return h.listWith(c, booking.ListFilter{ShowID: &id})
}

func (h *BookingHandler) listWith(c echo.Context, f booking.ListFilter) error {
	list, err := h.Svc.ListBookings(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	if list == nil {
		list = []*model.Booking{}
	}
	return c.JSON(http.StatusOK, list)
}

// Update handles PUT /v1/bookings/:id.  The body must carry the full
// booking representation; stored fields not present in the body are
// overwritten with zero values.
func (h *BookingHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var b model.Booking
	if err := c.Bind(&b); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	b.ID = id
	updated, err := h.Svc.UpdateBooking(c.Request().Context(), &b)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Cancel handles DELETE /v1/bookings/:id.  The booking is retained
// with a CANCELLED status and its seats become available again.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Svc.CancelBooking(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	h.publish(c, q.EventBookingCancelled, b)
	return c.JSON(http.StatusOK, b)
}

// TotalCost handles GET /v1/bookings/:id/cost and returns the summed
// cost recorded for the booking, 0 when none exists.
func (h *BookingHandler) TotalCost(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	total, err := h.Svc.TotalCost(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking_id": id, "total_cost": total})
}

// SummarizeByMovie handles GET /v1/bookings/summary/movies.
func (h *BookingHandler) SummarizeByMovie(c echo.Context) error {
	summary, err := h.Svc.SummarizeByMovie(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if summary == nil {
		summary = []model.MovieBookingSummary{}
	}
	return c.JSON(http.StatusOK, summary)
}

// ReservedSeats handles GET /v1/shows/:id/reserved-seats and returns
// the seat labels currently held for the show, sorted for stability.
func (h *BookingHandler) ReservedSeats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	set, err := h.Svc.ReservedSeats(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	seats := make([]string, 0, len(set))
	for s := range set {
		seats = append(seats, s)
	}
	sort.Strings(seats)
	return c.JSON(http.StatusOK, echo.Map{"show_id": id, "reserved_seats": seats})
}

// CustomerBookings handles GET /v1/bookings/customer/:customerId and
// returns the customer's booking history as denormalized ticket views.
func (h *BookingHandler) CustomerBookings(c echo.Context) error {
	id, err := pathID(c, "customerId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	views, err := h.Projector.FindBookingsForCustomer(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, views)
}

// TicketQR handles GET /v1/bookings/:id/qr and streams a PNG QR code
// of the booking reference.
func (h *BookingHandler) TicketQR(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !strings.EqualFold(b.TransactionStatus, model.StatusConfirmed) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not confirmed"})
	}
	if b.Ticket == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking has no ticket"})
	}
	png, err := ticketdoc.BookingRefQR(b.Ticket.BookingRef)
	if err != nil {
		return writeError(c, err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// TicketPDF handles GET /v1/bookings/:id/ticket.pdf and streams a
// printable ticket document.
func (h *BookingHandler) TicketPDF(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	view, err := h.Projector.ViewForBooking(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !strings.EqualFold(view.TransactionStatus, model.StatusConfirmed) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not confirmed"})
	}
	pdf, err := ticketdoc.TicketPDF(view)
	if err != nil {
		return writeError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="ticket-%d.pdf"`, id))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

func (h *BookingHandler) publish(c echo.Context, typ string, b *model.Booking) {
	if h.Publish == nil {
		return
	}
	ev := q.NewBookingEvent(typ)
	ev.BookingID = b.ID
	ev.CustomerID = b.CustomerID
	ev.ShowID = b.ShowID
	ev.TotalCost = b.TotalCost
	ev.BookingDate = b.BookingDate
	if b.Ticket != nil {
		ev.BookingRef = b.Ticket.BookingRef
		ev.SeatLabels = b.Ticket.SeatNumbers
	}
	h.Publish(c, ev)
}

// writeError maps service errors onto HTTP statuses.  Unknown errors
// become 500s with a generic message so internals never leak.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrInvalidRequest):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": trimSentinel(err)})
	case errors.Is(err, booking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": trimSentinel(err)})
	case errors.Is(err, booking.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": trimSentinel(err)})
	default:
		log.Printf("booking: internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}

// trimSentinel strips the "invalid request: " style sentinel prefix so
// API consumers see only the human-readable part of the message.
func trimSentinel(err error) string {
	msg := err.Error()
	for _, s := range []error{booking.ErrInvalidRequest, booking.ErrNotFound, booking.ErrConflict} {
		prefix := s.Error() + ": "
		if strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}

func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
