package model

// Customer identifies the owner of a booking.  Customer records are
// managed by an external collaborator; the booking engine only looks
// them up to validate ownership.
type Customer struct {
	ID           uint64 `json:"customer_id"`
	Name         string `json:"customer_name"`
	Address      string `json:"address"`
	MobileNumber string `json:"mobile_number"`
	Email        string `json:"email"`
}
