package ticketdoc_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinebook/booking/internal/report"
	"github.com/cinebook/booking/internal/ticketdoc"
)

func TestBookingRefQR(t *testing.T) {
	png, err := ticketdoc.BookingRefQR(1234567)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte{0x89, 'P', 'N', 'G'}), "expected PNG magic bytes")
}

func TestTicketPDF_FullView(t *testing.T) {
	ref := 1234567
	movie := "Inception"
	show := "Evening Show"
	theatre := "Grand"
	city := "Pune"
	screen := "Screen 3"
	start := time.Date(2025, 6, 20, 19, 0, 0, 0, time.UTC)

	pdf, err := ticketdoc.TicketPDF(report.TicketView{
		BookingID:        1,
		BookingReference: &ref,
		BookingDate:      "2025-06-15",
		TotalCost:        450,
		SeatNumbers:      []string{"A1", "A2"},
		MovieName:        &movie,
		ShowName:         &show,
		ShowStartTime:    &start,
		TheatreName:      &theatre,
		TheatreCity:      &city,
		ScreenName:       &screen,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")), "expected PDF header")
}

func TestTicketPDF_SparseView(t *testing.T) {
	// A degraded view with no resolvable catalog fields still renders.
	pdf, err := ticketdoc.TicketPDF(report.TicketView{BookingID: 2, TotalCost: 100})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}
