// Package booking implements the reservation engine: it validates seat
// selection requests, resolves seat conflicts against the ledger of
// non-cancelled bookings, and creates booking + ticket records
// atomically.  The package is storage-agnostic; persistence is
// provided through the Ledger, CatalogStore and CustomerStore
// interfaces defined in stores.go.
package booking

import "errors"

// ErrInvalidRequest is returned for malformed requests: missing or
// duplicate seats, a non-positive total cost, or a storage-level
// uniqueness violation surfaced at write time.  Handlers should
// translate this into an HTTP 400 response.
var ErrInvalidRequest = errors.New("invalid request")

// ErrNotFound is returned when a customer, show or booking id does
// not resolve.  Handlers should translate this into a 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when one or more requested seats are
// already reserved for the show.  Handlers should translate this
// into a 409 response; callers retry by re-selecting seats.
var ErrConflict = errors.New("conflict")

// ErrDuplicateSeat is the sentinel a Ledger implementation must
// return when a write violates the (show, seat) uniqueness
// constraint.  The orchestrator translates it into ErrInvalidRequest
// so the caller sees a consistent error whichever layer caught the
// race.
var ErrDuplicateSeat = errors.New("seat already claimed for show")
