package booking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cinebook/booking/internal/booking"
)

func TestNormalizeSeats(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"trims_and_uppercases", []string{" a1 ", "b2"}, []string{"A1", "B2"}},
		{"drops_blank_entries", []string{"", "  ", "C3"}, []string{"C3"}},
		{"keeps_order_and_duplicates", []string{"B1", "a1", "b1"}, []string{"B1", "A1", "B1"}},
		{"nil_in_empty_out", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, booking.NormalizeSeats(tt.in))
		})
	}
}
