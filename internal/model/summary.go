package model

// MovieBookingSummary is a derived, read-only aggregate of bookings
// per movie.  Cancelled bookings are excluded from all three figures.
// It is recomputed on demand and never persisted.
type MovieBookingSummary struct {
	MovieID       uint64  `json:"movie_id"`
	MovieName     string  `json:"movie_name"`
	TotalBookings int64   `json:"total_bookings"`
	TotalSeats    int64   `json:"total_seats"`
	TotalRevenue  float64 `json:"total_revenue"`
}
