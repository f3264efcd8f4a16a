package server

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/model"
	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/store"
)

// Admin commands mirror the public shapes but require the authenticated
// user's admin flag; requireAdmin reports AUTH_REQUIRED or ADMIN_REQUIRED
// before any field is parsed.

// handleAdminAddMovie adds a film:
// ADMIN_ADD_MOVIE|title|genre|rating|runtime -> SUCCESS|Movie added
// successfully.
func (s *session) handleAdminAddMovie(parts []string) {
	if !s.requireAdmin() {
		return
	}
	if len(parts) != 5 {
		s.sendError(ErrorInvalidFormat)
		return
	}
	runtime, err := strconv.Atoi(parts[4])
	if err != nil {
		s.sendError(ErrorInvalidFormat)
		return
	}
	m, err := model.NewMovie(parts[1], parts[2], parts[3], runtime)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNegativeRuntime):
			s.sendError("Runtime cannot be negative")
		case errors.Is(err, model.ErrEmptyTitle):
			s.sendError("Title cannot be empty")
		default:
			s.sendError(err.Error())
		}
		return
	}
	if err := s.srv.store.AddMovie(m); err != nil {
		s.sendError("Movie already exists")
		return
	}
	s.persist()
	s.sendSuccess("Movie added successfully")
}

// handleAdminAddShowtime schedules a screening:
// ADMIN_ADD_SHOWTIME|movieTitle|dateTime|rows|cols|basePrice|auditorium
// -> SUCCESS|Showtime added successfully. The date uses the wire layout
// yyyy-MM-dd HH:mm; a second showtime for the same movie at the same
// time is a conflict.
func (s *session) handleAdminAddShowtime(parts []string) {
	if !s.requireAdmin() {
		return
	}
	if len(parts) != 7 {
		s.sendError(ErrorInvalidFormat)
		return
	}
	movie, err := s.srv.store.FindMovie(parts[1])
	if err != nil {
		s.sendError("Movie not found")
		return
	}
	dateTime, err := time.ParseInLocation(TimeLayout, parts[2], time.Local)
	if err != nil {
		s.sendError("Invalid date format")
		return
	}
	rows, err := strconv.Atoi(parts[3])
	if err != nil {
		s.sendError(ErrorInvalidFormat)
		return
	}
	cols, err := strconv.Atoi(parts[4])
	if err != nil {
		s.sendError(ErrorInvalidFormat)
		return
	}
	basePrice, err := strconv.ParseFloat(parts[5], 64)
	if err != nil {
		s.sendError(ErrorInvalidFormat)
		return
	}
	st, err := model.NewShowtime(movie, dateTime, rows, cols, basePrice, parts[6])
	if err != nil {
		switch {
		case errors.Is(err, model.ErrBadDimensions):
			s.sendError("Rows and cols must be positive")
		case errors.Is(err, model.ErrNegativePrice):
			s.sendError("Base price cannot be negative")
		default:
			s.sendError(err.Error())
		}
		return
	}
	if err := s.srv.store.AddShowtime(st); err != nil {
		s.sendError("Showtime already exists for this movie at that time")
		return
	}
	s.persist()
	s.sendSuccess("Showtime added successfully")
}

// handleAdminPromote grants the admin flag:
// ADMIN_PROMOTE|username -> SUCCESS|User promoted to admin.
func (s *session) handleAdminPromote(parts []string) {
	if !s.requireAdmin() {
		return
	}
	if len(parts) != 2 {
		s.sendError(ErrorInvalidFormat)
		return
	}
	if err := s.srv.store.PromoteUser(parts[1]); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.sendError("User not found")
			return
		}
		s.sendError(ErrorInternal)
		return
	}
	s.persist()
	s.sendSuccess("User promoted to admin")
}

// handleAdminViewAllBookings lists every live reservation in the system:
// SUCCESS|<count>, then
// BOOKING_DETAIL|bookingID|username|movieTitle|dateTime|seats|totalCost,
// then END_LIST.
func (s *session) handleAdminViewAllBookings() {
	if !s.requireAdmin() {
		return
	}
	bookings := s.srv.store.Reservations()
	s.sendSuccess(strconv.Itoa(len(bookings)))
	for _, r := range bookings {
		s.send(fmt.Sprintf("%s|%s|%s|%s|%s|%s|%.2f",
			RespBookingDetail, r.BookingID, r.User.Username,
			r.Showtime.Movie().Title,
			r.Showtime.DateTime().Format(TimeLayout),
			r.SeatLabels(), r.TotalPrice()))
	}
	s.send(RespEndList)
}
