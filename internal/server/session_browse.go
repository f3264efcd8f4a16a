package server

import (
	"fmt"
	"strconv"
	"strings"
)

// Browsing commands need no authentication: the catalog is public, only
// acting on it requires an account.

// handleListMovies emits the movie catalog:
// SUCCESS|<count>, then MOVIE|title|title|genre|rating|runtime per film,
// then END_LIST. The doubled title is part of the wire format.
func (s *session) handleListMovies() {
	movies := s.srv.store.Movies()
	s.sendSuccess(strconv.Itoa(len(movies)))
	for _, m := range movies {
		s.send(fmt.Sprintf("%s|%s|%s|%s|%s|%d", RespMovie, m.Title, m.Title, m.Genre, m.Rating, m.Runtime))
	}
	s.send(RespEndList)
}

// handleListShowtimes emits every screening of one movie:
// SUCCESS|<count>, then
// SHOWTIME|ST_<index>|yyyy-MM-dd HH:mm|available|total|price|auditorium,
// then END_LIST. The price is the current dynamic price and may have
// moved by the time the client books.
func (s *session) handleListShowtimes(parts []string) {
	if len(parts) != 2 {
		s.sendError(ErrorInvalidFormat)
		return
	}
	title := parts[1]
	if _, err := s.srv.store.FindMovie(title); err != nil {
		s.sendError("Movie not found")
		return
	}
	entries := s.srv.store.ShowtimesFor(title)
	s.sendSuccess(strconv.Itoa(len(entries)))
	for _, e := range entries {
		st := e.Showtime
		s.send(fmt.Sprintf("%s|%s%d|%s|%d|%d|%.2f|%s",
			RespShowtime, ShowtimeIDPrefix, e.Index,
			st.DateTime().Format(TimeLayout),
			st.AvailableSeatCount(), st.TotalSeats(),
			st.DynamicPrice(), st.Auditorium()))
	}
	s.send(RespEndList)
}

// handleViewSeats renders one showtime's grid:
// SUCCESS|rows|cols, then ROW|<1-based row>|cell... with 1 for an
// available seat and 0 for a booked one, then END_SEATS.
func (s *session) handleViewSeats(parts []string) {
	if len(parts) != 2 {
		s.sendError(ErrorInvalidFormat)
		return
	}
	st, err := s.resolveShowtime(parts[1])
	if err != nil {
		s.sendError("Showtime not found")
		return
	}
	grid := st.Grid()
	s.sendSuccess(fmt.Sprintf("%d|%d", st.Rows(), st.Cols()))
	for r, row := range grid {
		var b strings.Builder
		fmt.Fprintf(&b, "%s|%d", RespRow, r+1)
		for _, booked := range row {
			if booked {
				b.WriteString("|0")
			} else {
				b.WriteString("|1")
			}
		}
		s.send(b.String())
	}
	s.send(RespEndSeats)
}
