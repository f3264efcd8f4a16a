package server

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/model"
	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/queue"
	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/store"
)

// handleBook creates a reservation:
// BOOK|ST_<i>|seatCount|row:col...|cardNumber|expiry|cvv ->
// SUCCESS|bookingID|totalCost|Booking confirmed or ERROR|<reason>.
// Seat coordinates on the wire are 1-based; they are converted to the
// grid's 0-based coordinates here and nowhere else. The booking is
// all-or-nothing: any rejected seat leaves the grid and the store exactly
// as they were.
func (s *session) handleBook(parts []string) {
	if !s.requireAuth() {
		return
	}
	if len(parts) < 7 {
		s.sendError(ErrorInvalidFormat)
		return
	}
	seatCount, err := strconv.Atoi(parts[2])
	if err != nil || seatCount < 1 || len(parts) != 3+seatCount+3 {
		s.sendError(ErrorInvalidFormat)
		return
	}
	refs := make([]model.SeatRef, 0, seatCount)
	for _, tok := range parts[3 : 3+seatCount] {
		ref, ok := parseSeatToken(tok)
		if !ok {
			s.sendError(ErrorInvalidFormat)
			return
		}
		refs = append(refs, ref)
	}
	cardNumber, expiry, cvv := parts[len(parts)-3], parts[len(parts)-2], parts[len(parts)-1]

	st, err := s.resolveShowtime(parts[1])
	if err != nil {
		s.sendError("Showtime not found")
		return
	}

	res, err := model.NewReservation(s.user, st, refs, cardNumber, expiry, cvv)
	if err != nil {
		s.sendError(bookingMessage(err))
		return
	}
	s.srv.store.AddReservation(res)
	s.persist()
	s.sendSuccess(fmt.Sprintf("%s|%.2f|Booking confirmed", res.BookingID, res.TotalPrice()))

	if s.srv.eventsEnabled {
		ev := queue.BookingConfirmedEvent{
			BookingID:  res.BookingID,
			Username:   res.User.Username,
			MovieTitle: st.Movie().Title,
			ShowtimeID: parts[1],
			StartsAt:   st.DateTime().Format(TimeLayout),
			Seats:      strings.Split(res.SeatLabels(), SeatSeparator),
			TotalPrice: res.TotalPrice(),
			Auditorium: st.Auditorium(),
			BookedAt:   res.BookingTime.UTC().Format(time.RFC3339),
		}
		go func() { _ = queue.PublishBookingConfirmed(context.Background(), ev) }()
	}
}

// handleCancel reverses a booking: CANCEL|bookingID ->
// SUCCESS|Reservation cancelled or ERROR|<reason>. Only the owner may
// cancel; the ownership check and the removal from the registry happen in
// one store critical section so two racing cancels cannot both free the
// seats.
func (s *session) handleCancel(parts []string) {
	if !s.requireAuth() {
		return
	}
	if len(parts) != 2 {
		s.sendError(ErrorInvalidFormat)
		return
	}
	res, err := s.srv.store.TakeReservation(parts[1], s.user)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrReservationNotFound):
			s.sendError("Booking not found")
		case errors.Is(err, store.ErrNotOwner):
			s.sendError("Not authorized to cancel this booking")
		default:
			s.sendError(ErrorInternal)
		}
		return
	}
	movieTitle := res.Showtime.Movie().Title
	res.CancelAllSeats()
	s.persist()
	s.sendSuccess("Reservation cancelled")

	if s.srv.eventsEnabled {
		ev := queue.BookingCancelledEvent{
			BookingID:   res.BookingID,
			Username:    s.user.Username,
			MovieTitle:  movieTitle,
			CancelledAt: time.Now().UTC().Format(time.RFC3339),
		}
		go func() { _ = queue.PublishBookingCancelled(context.Background(), ev) }()
	}
}

// handleMyBookings lists the authenticated user's reservations:
// SUCCESS|<count>, then
// BOOKING|bookingID|movieTitle|dateTime|seat,seat,...|totalCost,
// then END_LIST. Costs are the prices captured at booking time, not the
// live dynamic price.
func (s *session) handleMyBookings() {
	if !s.requireAuth() {
		return
	}
	bookings := s.srv.store.ReservationsFor(s.user)
	s.sendSuccess(strconv.Itoa(len(bookings)))
	for _, r := range bookings {
		s.send(fmt.Sprintf("%s|%s|%s|%s|%s|%.2f",
			RespBooking, r.BookingID, r.Showtime.Movie().Title,
			r.Showtime.DateTime().Format(TimeLayout),
			r.SeatLabels(), r.TotalPrice()))
	}
	s.send(RespEndList)
}

// parseSeatToken converts a 1-based "row:col" wire token to a 0-based
// grid reference.
func parseSeatToken(tok string) (model.SeatRef, bool) {
	rowStr, colStr, ok := strings.Cut(tok, SeatDelimiter)
	if !ok {
		return model.SeatRef{}, false
	}
	row, err := strconv.Atoi(rowStr)
	if err != nil || row < 1 {
		return model.SeatRef{}, false
	}
	col, err := strconv.Atoi(colStr)
	if err != nil || col < 1 {
		return model.SeatRef{}, false
	}
	return model.SeatRef{Row: row - 1, Col: col - 1}, true
}

// bookingMessage maps reservation rejections to protocol reason strings.
func bookingMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrShowtimeStarted):
		return "Showtime already started"
	case errors.Is(err, model.ErrDuplicateSeat):
		return "Duplicate seat selection detected"
	case errors.Is(err, model.ErrSeatOutOfRange):
		return "Seat out of range"
	case errors.Is(err, model.ErrSeatTaken):
		return "Seat already booked"
	case errors.Is(err, model.ErrNoSeats):
		return ErrorInvalidFormat
	default:
		return err.Error()
	}
}
