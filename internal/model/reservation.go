package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Reservation is one atomic booking transaction: a set of seats in one
// showtime, owned by one user. Constructing a reservation books the seats
// as a side effect; cancelling it is the only path that frees them again.
// After construction the reservation is immutable except for
// CancelAllSeats.
//
// The Seats slice holds historical price/position records, not live seat
// state; see Seat. Payment fields are captured opaquely and never
// validated.
type Reservation struct {
	BookingID   string
	User        *User
	Showtime    *Showtime
	Seats       []Seat
	BookingTime time.Time
	CardNumber  string
	Expiry      string
	CVV         string
}

// NewReservation atomically books every referenced seat on the showtime
// and binds the result to the user. The whole request succeeds or the
// whole request fails: if any seat is out of range, already booked,
// duplicated within the request, or the showtime has started, no cell is
// touched and the error describes the first rejection.
//
// Each booked seat captures the showtime's dynamic price at this instant;
// later price movement does not affect what this reservation charges.
// The booking ID is a random UUID, collision-resistant rather than
// sequential.
func NewReservation(user *User, showtime *Showtime, refs []SeatRef, cardNumber, expiry, cvv string) (*Reservation, error) {
	now := time.Now()
	seats, err := showtime.BookAll(now, refs)
	if err != nil {
		return nil, err
	}
	return &Reservation{
		BookingID:   uuid.NewString(),
		User:        user,
		Showtime:    showtime,
		Seats:       seats,
		BookingTime: now,
		CardNumber:  cardNumber,
		Expiry:      expiry,
		CVV:         cvv,
	}, nil
}

// RestoreReservation rebuilds a reservation from snapshot data without
// booking anything; the showtime grid is restored separately.
func RestoreReservation(bookingID string, user *User, showtime *Showtime, seats []Seat, bookingTime time.Time, cardNumber, expiry, cvv string) *Reservation {
	return &Reservation{
		BookingID:   bookingID,
		User:        user,
		Showtime:    showtime,
		Seats:       seats,
		BookingTime: bookingTime,
		CardNumber:  cardNumber,
		Expiry:      expiry,
		CVV:         cvv,
	}
}

// TotalPrice sums the per-seat prices captured at booking time.
func (r *Reservation) TotalPrice() float64 {
	total := 0.0
	for _, s := range r.Seats {
		total += s.Price
	}
	return total
}

// SeatLabels renders the booked seats as "A1,B2,..." in booking order.
func (r *Reservation) SeatLabels() string {
	labels := make([]string, len(r.Seats))
	for i, s := range r.Seats {
		labels[i] = s.Label()
	}
	return strings.Join(labels, ",")
}

// CancelAllSeats frees every cell this reservation holds and empties the
// seat list. Cells booked by other reservations are untouched; a cell
// already free (which would indicate a broken invariant) is left alone.
func (r *Reservation) CancelAllSeats() {
	for _, s := range r.Seats {
		if s.Booked {
			// Coordinates were range-checked at booking time.
			_, _ = r.Showtime.Cancel(s.Row, s.Col)
		}
	}
	r.Seats = nil
}
