// Package queue defines the booking events exchanged over the message
// broker and the publisher/consumer that move them. Event delivery is
// strictly best-effort: the booking engine never waits on the broker and
// a dead broker never fails a client command.
package queue

// BookingConfirmedEvent is published when a reservation is successfully
// created. It carries enough for downstream consumers to log, notify or
// feed analytics without querying the store.
type BookingConfirmedEvent struct {
	BookingID  string   `json:"booking_id"`
	Username   string   `json:"username"`
	MovieTitle string   `json:"movie_title"`
	ShowtimeID string   `json:"showtime_id"`
	StartsAt   string   `json:"starts_at"`
	Seats      []string `json:"seats"`
	TotalPrice float64  `json:"total_price"`
	Auditorium string   `json:"auditorium,omitempty"`
	BookedAt   string   `json:"booked_at"`
}

// BookingCancelledEvent is published when a reservation is cancelled and
// its seats returned to the pool.
type BookingCancelledEvent struct {
	BookingID   string `json:"booking_id"`
	Username    string `json:"username"`
	MovieTitle  string `json:"movie_title"`
	CancelledAt string `json:"cancelled_at"`
}
