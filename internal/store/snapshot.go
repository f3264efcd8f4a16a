package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/model"
)

// Snapshot persistence: the entire store is serialized to one JSON file
// after every successful mutating command and read back at startup. There
// is no incremental log and no schema versioning; the snapshot is a plain
// durable recovery point.
//
// The in-memory object graph is cyclic (user <-> reservation) and carries
// locks, so the file format is a flat set of records that reference each
// other by business key: reservations name their owner by username and
// their screening by showtime index.

type snapshot struct {
	SavedAt      time.Time        `json:"saved_at"`
	Users        []userRecord     `json:"users"`
	Movies       []movieRecord    `json:"movies"`
	Showtimes    []showtimeRecord `json:"showtimes"`
	Reservations []bookingRecord  `json:"reservations"`
}

type userRecord struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"is_admin"`
}

type movieRecord struct {
	Title      string `json:"title"`
	Genre      string `json:"genre"`
	Rating     string `json:"rating"`
	Runtime    int    `json:"runtime"`
	PosterPath string `json:"poster_path,omitempty"`
}

type showtimeRecord struct {
	MovieTitle string    `json:"movie_title"`
	DateTime   time.Time `json:"date_time"`
	Rows       int       `json:"rows"`
	Cols       int       `json:"cols"`
	BasePrice  float64   `json:"base_price"`
	Auditorium string    `json:"auditorium,omitempty"`
	Booked     [][]bool  `json:"booked"`
}

type seatRecord struct {
	Row   int     `json:"row"`
	Col   int     `json:"col"`
	Price float64 `json:"price"`
}

type bookingRecord struct {
	BookingID     string       `json:"booking_id"`
	Username      string       `json:"username"`
	ShowtimeIndex int          `json:"showtime_index"`
	Seats         []seatRecord `json:"seats"`
	BookingTime   time.Time    `json:"booking_time"`
	CardNumber    string       `json:"card_number"`
	Expiry        string       `json:"expiry"`
	CVV           string       `json:"cvv"`
}

// Save writes the full store snapshot to the configured path. The file is
// written to a temporary sibling and renamed into place so a crash mid-
// write never leaves a truncated snapshot. Concurrent saves are
// serialized on saveMu; the catalog lock is held only while the snapshot
// is built, so sessions keep booking while the bytes go to disk. With no
// path configured Save is a no-op.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	snap := s.buildSnapshotLocked()
	s.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (s *Store) buildSnapshotLocked() snapshot {
	snap := snapshot{SavedAt: time.Now()}

	for _, u := range s.users {
		snap.Users = append(snap.Users, userRecord{
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Email:        u.Email,
			IsAdmin:      u.IsAdmin,
		})
	}
	for _, m := range s.movies {
		snap.Movies = append(snap.Movies, movieRecord{
			Title:      m.Title,
			Genre:      m.Genre,
			Rating:     m.Rating,
			Runtime:    m.Runtime,
			PosterPath: m.PosterPath,
		})
	}
	for _, st := range s.showtimes {
		snap.Showtimes = append(snap.Showtimes, showtimeRecord{
			MovieTitle: st.Movie().Title,
			DateTime:   st.DateTime(),
			Rows:       st.Rows(),
			Cols:       st.Cols(),
			BasePrice:  st.BasePrice(),
			Auditorium: st.Auditorium(),
			// Grid takes the showtime lock under the store lock; this
			// nesting direction is the one the package ordering allows.
			Booked: st.Grid(),
		})
	}
	for _, r := range s.reservations {
		rec := bookingRecord{
			BookingID:     r.BookingID,
			Username:      r.User.Username,
			ShowtimeIndex: s.showtimeIndexLocked(r.Showtime),
			BookingTime:   r.BookingTime,
			CardNumber:    r.CardNumber,
			Expiry:        r.Expiry,
			CVV:           r.CVV,
		}
		for _, seat := range r.Seats {
			rec.Seats = append(rec.Seats, seatRecord{Row: seat.Row, Col: seat.Col, Price: seat.Price})
		}
		snap.Reservations = append(snap.Reservations, rec)
	}
	return snap
}

func (s *Store) showtimeIndexLocked(st *model.Showtime) int {
	for i, candidate := range s.showtimes {
		if candidate == st {
			return i
		}
	}
	return -1
}

// Load replaces the store contents with the snapshot at the configured
// path. A missing file is not an error: the store simply starts empty.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restoreLocked(snap)
}

func (s *Store) restoreLocked(snap snapshot) error {
	users := make([]*model.User, 0, len(snap.Users))
	byName := make(map[string]*model.User, len(snap.Users))
	for _, rec := range snap.Users {
		u := model.NewUser(rec.Username, rec.PasswordHash, rec.Email, rec.IsAdmin)
		users = append(users, u)
		byName[rec.Username] = u
	}

	movies := make([]*model.Movie, 0, len(snap.Movies))
	byTitle := make(map[string]*model.Movie, len(snap.Movies))
	for _, rec := range snap.Movies {
		m, err := model.NewMovie(rec.Title, rec.Genre, rec.Rating, rec.Runtime)
		if err != nil {
			return fmt.Errorf("restore movie %q: %w", rec.Title, err)
		}
		m.PosterPath = rec.PosterPath
		movies = append(movies, m)
		byTitle[rec.Title] = m
	}

	showtimes := make([]*model.Showtime, 0, len(snap.Showtimes))
	for i, rec := range snap.Showtimes {
		m, ok := byTitle[rec.MovieTitle]
		if !ok {
			return fmt.Errorf("restore showtime %d: movie %q missing from snapshot", i, rec.MovieTitle)
		}
		st, err := model.NewShowtime(m, rec.DateTime, rec.Rows, rec.Cols, rec.BasePrice, rec.Auditorium)
		if err != nil {
			return fmt.Errorf("restore showtime %d: %w", i, err)
		}
		if err := st.RestoreGrid(rec.Booked); err != nil {
			return fmt.Errorf("restore showtime %d grid: %w", i, err)
		}
		showtimes = append(showtimes, st)
	}

	reservations := make([]*model.Reservation, 0, len(snap.Reservations))
	for _, rec := range snap.Reservations {
		u, ok := byName[rec.Username]
		if !ok {
			return fmt.Errorf("restore booking %s: user %q missing from snapshot", rec.BookingID, rec.Username)
		}
		if rec.ShowtimeIndex < 0 || rec.ShowtimeIndex >= len(showtimes) {
			return fmt.Errorf("restore booking %s: showtime index %d out of range", rec.BookingID, rec.ShowtimeIndex)
		}
		seats := make([]model.Seat, 0, len(rec.Seats))
		for _, sr := range rec.Seats {
			seats = append(seats, model.Seat{Row: sr.Row, Col: sr.Col, Price: sr.Price, Booked: true})
		}
		r := model.RestoreReservation(rec.BookingID, u, showtimes[rec.ShowtimeIndex], seats,
			rec.BookingTime, rec.CardNumber, rec.Expiry, rec.CVV)
		u.AddReservation(r)
		reservations = append(reservations, r)
	}

	s.users = users
	s.movies = movies
	s.showtimes = showtimes
	s.reservations = reservations
	return nil
}
