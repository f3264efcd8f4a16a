// Package store holds the shared in-memory registry of users, movies,
// showtimes and reservations, plus its snapshot persistence. One Store
// exists per process and every session mutates catalog state through it.
//
// Concurrency contract: a single mutex serializes all catalog reads and
// writes, trading throughput for a trivially-provable absence of torn
// state. Seat-grid mutation is NOT covered here; each Showtime carries its
// own lock. The store may take a showtime's lock while holding its own
// (Save copies grids), therefore no code path may acquire the store lock
// while holding a showtime lock; booking takes the two guards one after
// the other, never nested.
package store

import (
	"errors"
	"sync"

	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/model"
)

// Lookup misses are reported with sentinel errors so handlers can map
// them to specific protocol messages.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrMovieNotFound       = errors.New("movie not found")
	ErrShowtimeNotFound    = errors.New("showtime not found")
	ErrReservationNotFound = errors.New("reservation not found")

	ErrNotOwner = errors.New("reservation belongs to another user")

	ErrUserExists     = errors.New("username already taken")
	ErrMovieExists    = errors.New("movie already exists")
	ErrShowtimeExists = errors.New("showtime already exists for this movie at that time")
)

// Store is the single point of truth for catalog state. All lookups are
// linear scans on the natural business key (username, title, booking ID);
// the catalog is small and slow-growing, so no secondary index is kept.
type Store struct {
	mu   sync.Mutex
	path string

	// saveMu serializes snapshot writes. Save releases mu before touching
	// the filesystem, so without this two savers could interleave on the
	// shared temp file and rename a half-written snapshot into place.
	saveMu sync.Mutex

	users        []*model.User
	movies       []*model.Movie
	showtimes    []*model.Showtime
	reservations []*model.Reservation
}

// New creates an empty store whose snapshot lives at path. An empty path
// disables persistence (used by tests).
func New(path string) *Store {
	return &Store{path: path}
}

// AddUser registers a new account. The username must be unused.
func (s *Store) AddUser(u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findUserLocked(u.Username) != nil {
		return ErrUserExists
	}
	s.users = append(s.users, u)
	return nil
}

// FindUser looks an account up by username.
func (s *Store) FindUser(username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u := s.findUserLocked(username); u != nil {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (s *Store) findUserLocked(username string) *model.User {
	for _, u := range s.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

// RemoveUser deletes an account by username. The protocol surface never
// calls this; it exists for direct store administration.
func (s *Store) RemoveUser(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.Username == username {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return
		}
	}
}

// PromoteUser flips the admin flag on an existing account.
func (s *Store) PromoteUser(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.findUserLocked(username)
	if u == nil {
		return ErrUserNotFound
	}
	u.IsAdmin = true
	return nil
}

// AddMovie adds a film to the catalog. The title must be unused.
func (s *Store) AddMovie(m *model.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findMovieLocked(m.Title) != nil {
		return ErrMovieExists
	}
	s.movies = append(s.movies, m)
	return nil
}

// FindMovie looks a film up by exact title.
func (s *Store) FindMovie(title string) (*model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m := s.findMovieLocked(title); m != nil {
		return m, nil
	}
	return nil, ErrMovieNotFound
}

func (s *Store) findMovieLocked(title string) *model.Movie {
	for _, m := range s.movies {
		if m.Title == title {
			return m
		}
	}
	return nil
}

// Movies returns a copy of the catalog in insertion order.
func (s *Store) Movies() []*model.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Movie, len(s.movies))
	copy(out, s.movies)
	return out
}

// AddShowtime schedules a screening. Two showtimes for the same movie at
// the same time clash and are rejected.
func (s *Store) AddShowtime(st *model.Showtime) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.showtimes {
		if existing.Movie() == st.Movie() && existing.DateTime().Equal(st.DateTime()) {
			return ErrShowtimeExists
		}
	}
	s.showtimes = append(s.showtimes, st)
	return nil
}

// ShowtimeAt resolves a showtime by its list index, the number carried in
// the wire identifier "ST_<index>". Showtimes are never removed, so the
// index is stable for the life of the process.
func (s *Store) ShowtimeAt(index int) (*model.Showtime, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.showtimes) {
		return nil, ErrShowtimeNotFound
	}
	return s.showtimes[index], nil
}

// IndexedShowtime pairs a showtime with its wire index.
type IndexedShowtime struct {
	Index    int
	Showtime *model.Showtime
}

// ShowtimesFor returns every screening of the named movie together with
// its wire index, in schedule insertion order.
func (s *Store) ShowtimesFor(title string) []IndexedShowtime {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []IndexedShowtime
	for i, st := range s.showtimes {
		if st.Movie().Title == title {
			out = append(out, IndexedShowtime{Index: i, Showtime: st})
		}
	}
	return out
}

// Showtimes returns a copy of the full schedule.
func (s *Store) Showtimes() []*model.Showtime {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Showtime, len(s.showtimes))
	copy(out, s.showtimes)
	return out
}

// AddReservation records a booking and appends it to the owning user's
// list in one critical section, keeping the store invariant that every
// stored reservation appears in exactly one user's list.
func (s *Store) AddReservation(r *model.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations = append(s.reservations, r)
	r.User.AddReservation(r)
}

// RemoveReservation deletes a booking from the registry and from the
// owning user's list.
func (s *Store) RemoveReservation(bookingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.reservations {
		if r.BookingID == bookingID {
			r.User.RemoveReservation(bookingID)
			s.reservations = append(s.reservations[:i], s.reservations[i+1:]...)
			return
		}
	}
}

// TakeReservation atomically checks ownership and removes the booking
// from the registry and the owner's list. Exactly one of two racing
// cancels can win; the loser sees ErrReservationNotFound. The caller is
// responsible for freeing the seats afterwards (outside the store lock,
// per the package lock ordering).
func (s *Store) TakeReservation(bookingID string, owner *model.User) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.reservations {
		if r.BookingID != bookingID {
			continue
		}
		if r.User != owner {
			return nil, ErrNotOwner
		}
		r.User.RemoveReservation(bookingID)
		s.reservations = append(s.reservations[:i], s.reservations[i+1:]...)
		return r, nil
	}
	return nil, ErrReservationNotFound
}

// FindReservation looks a booking up by its ID.
func (s *Store) FindReservation(bookingID string) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reservations {
		if r.BookingID == bookingID {
			return r, nil
		}
	}
	return nil, ErrReservationNotFound
}

// Reservations returns a copy of every live booking in creation order.
func (s *Store) Reservations() []*model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Reservation, len(s.reservations))
	copy(out, s.reservations)
	return out
}

// ReservationsFor returns a copy of one user's bookings.
func (s *Store) ReservationsFor(u *model.User) []*model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Reservation, len(u.Reservations))
	copy(out, u.Reservations)
	return out
}

// Counts reports catalog sizes for the ops stats endpoint.
type Counts struct {
	Users        int `json:"users"`
	Movies       int `json:"movies"`
	Showtimes    int `json:"showtimes"`
	Reservations int `json:"reservations"`
	BookedSeats  int `json:"booked_seats"`
}

// Stats returns current catalog counts. The booked-seat total takes each
// showtime lock briefly, under the store lock, per the package ordering.
func (s *Store) Stats() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	booked := 0
	for _, st := range s.showtimes {
		booked += st.TotalSeats() - st.AvailableSeatCount()
	}
	return Counts{
		Users:        len(s.users),
		Movies:       len(s.movies),
		Showtimes:    len(s.showtimes),
		Reservations: len(s.reservations),
		BookedSeats:  booked,
	}
}

// EnsureAdmin guarantees a default administrator account after restore.
// If the username already exists the stored account wins, even if its
// password or role differs.
func (s *Store) EnsureAdmin(username, passwordHash, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findUserLocked(username) != nil {
		return
	}
	s.users = append(s.users, model.NewUser(username, passwordHash, email, true))
}

// Clear empties the store. Tests only.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = nil
	s.movies = nil
	s.showtimes = nil
	s.reservations = nil
}
