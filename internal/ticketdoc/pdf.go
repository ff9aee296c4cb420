package ticketdoc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/cinebook/booking/internal/report"
)

// TicketPDF renders a printable A4 ticket for one booking view.  The
// QR code of the booking reference sits on top, followed by the show,
// venue and seat details.  Fields missing from the view are rendered
// as "-" so the layout stays stable.
func TicketPDF(v report.TicketView) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	if v.BookingReference != nil {
		png, err := BookingRefQR(*v.BookingReference)
		if err != nil {
			return nil, err
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		name := fmt.Sprintf("qr_%d", v.BookingID)
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
		// Centered, 80x80mm.
		pdf.ImageOptions(name, (210.0-80.0)/2, pdf.GetY(), 80, 80, false, opts, 0, "")
		pdf.Ln(84)
	}

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.5)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 20)
	pdf.SetX(20)
	pdf.MultiCell(170, 9, orDash(v.MovieName), "", "L", false)
	pdf.Ln(2)

	rows := []struct{ label, value string }{
		{"Show", orDash(v.ShowName)},
		{"Starts", timeOrDash(v)},
		{"Theatre", theatreLine(v)},
		{"Screen", orDash(v.ScreenName)},
		{"Seats", seatLine(v)},
		{"Booking date", dashIfEmpty(v.BookingDate)},
		{"Total", fmt.Sprintf("%.2f", v.TotalCost)},
	}
	for _, row := range rows {
		pdf.SetFont("Arial", "", 13)
		pdf.SetX(20)
		pdf.CellFormat(45, 9, row.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(125, 9, row.value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "I", 11)
	pdf.SetTextColor(100, 100, 100)
	ref := "-"
	if v.BookingReference != nil {
		ref = fmt.Sprintf("%d", *v.BookingReference)
	}
	pdf.CellFormat(0, 8, fmt.Sprintf("Booking reference: %s", ref), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Present this ticket at the entrance.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render ticket pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func timeOrDash(v report.TicketView) string {
	if v.ShowStartTime == nil {
		return "-"
	}
	return v.ShowStartTime.Format("January 2, 2006 3:04PM")
}

func theatreLine(v report.TicketView) string {
	name := orDash(v.TheatreName)
	if v.TheatreCity != nil && *v.TheatreCity != "" {
		return name + ", " + *v.TheatreCity
	}
	return name
}

func seatLine(v report.TicketView) string {
	if len(v.SeatNumbers) == 0 {
		return "-"
	}
	return strings.Join(v.SeatNumbers, ", ")
}
