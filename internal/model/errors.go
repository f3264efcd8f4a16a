// Sentinel errors shared across the model package. Higher layers match on
// these with errors.Is to translate a failed state transition into the
// right protocol error line, so every distinct rejection reason gets its
// own value.
package model

import "errors"

// Validation failures raised while constructing catalog entities.
var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrNegativeRuntime = errors.New("runtime cannot be negative")
	ErrNegativePrice   = errors.New("price cannot be negative")
	ErrBadDimensions   = errors.New("rows and cols must be positive")
	ErrNilMovie        = errors.New("movie cannot be nil")
)

// Booking failures raised by the seat-grid state machine. ErrSeatOutOfRange
// covers both axes; the coordinate that failed is carried in the wrapping
// error message, not in the sentinel.
var (
	ErrSeatOutOfRange  = errors.New("seat out of range")
	ErrSeatTaken       = errors.New("seat already booked")
	ErrDuplicateSeat   = errors.New("duplicate seat selection")
	ErrShowtimeStarted = errors.New("showtime already started")
	ErrNoSeats         = errors.New("at least one seat is required")
)
