// Package ticketdoc renders downloadable artefacts for a booked ticket:
// a QR code image of the booking reference and a printable PDF stub.
package ticketdoc

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRSize is the edge length in pixels of generated QR images.
const QRSize = 300

// BookingRefQR encodes a booking reference number as a PNG QR code.
// The image carries only the numeric reference; anyone scanning it still
// has to resolve the booking through the API.
func BookingRefQR(bookingRef int) ([]byte, error) {
	qr, err := qrcode.New(fmt.Sprintf("%d", bookingRef), qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("generate qr: %w", err)
	}
	png, err := qr.PNG(QRSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr png: %w", err)
	}
	return png, nil
}
