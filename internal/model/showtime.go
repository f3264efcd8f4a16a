package model

import (
	"fmt"
	"sync"
	"time"
)

// Showtime is one scheduled screening: a movie, a wall-clock start time,
// an auditorium and a seating grid. It is the unit of concurrency control
// for booking. The booked matrix is the single source of truth for seat
// availability and every read or write of it happens under mu, so two
// sessions racing on the same cell always resolve to exactly one winner.
// Locks on different showtimes are independent; bookings for different
// screenings never contend with each other.
//
// Lock ordering: code holding a showtime mutex must never acquire the
// store lock. The store may briefly take a showtime mutex (snapshotting
// grids) while holding its own lock, so the reverse nesting would
// deadlock.
type Showtime struct {
	mu         sync.Mutex
	movie      *Movie
	dateTime   time.Time
	rows       int
	cols       int
	booked     [][]bool // true means booked
	basePrice  float64
	auditorium string
}

// NewShowtime builds a showtime with an empty grid of rows x cols seats.
func NewShowtime(movie *Movie, dateTime time.Time, rows, cols int, basePrice float64, auditorium string) (*Showtime, error) {
	if movie == nil {
		return nil, ErrNilMovie
	}
	if rows <= 0 || cols <= 0 {
		return nil, ErrBadDimensions
	}
	if basePrice < 0 {
		return nil, ErrNegativePrice
	}
	booked := make([][]bool, rows)
	for r := range booked {
		booked[r] = make([]bool, cols)
	}
	return &Showtime{
		movie:      movie,
		dateTime:   dateTime,
		rows:       rows,
		cols:       cols,
		booked:     booked,
		basePrice:  basePrice,
		auditorium: auditorium,
	}, nil
}

// Movie returns the screened film.
func (s *Showtime) Movie() *Movie { return s.movie }

// DateTime returns the scheduled start of the screening.
func (s *Showtime) DateTime() time.Time { return s.dateTime }

// Rows returns the number of seat rows.
func (s *Showtime) Rows() int { return s.rows }

// Cols returns the number of seat columns.
func (s *Showtime) Cols() int { return s.cols }

// BasePrice returns the price floor used by dynamic pricing.
func (s *Showtime) BasePrice() float64 { return s.basePrice }

// Auditorium returns the auditorium name; may be empty.
func (s *Showtime) Auditorium() string { return s.auditorium }

// TotalSeats returns the grid capacity.
func (s *Showtime) TotalSeats() int { return s.rows * s.cols }

// HasStarted reports whether the screening start time is at or before now.
// A started showtime rejects all new bookings regardless of seat state.
func (s *Showtime) HasStarted(now time.Time) bool {
	return !s.dateTime.After(now)
}

func (s *Showtime) checkRange(row, col int) error {
	if row < 0 || row >= s.rows {
		return fmt.Errorf("row %d: %w", row, ErrSeatOutOfRange)
	}
	if col < 0 || col >= s.cols {
		return fmt.Errorf("col %d: %w", col, ErrSeatOutOfRange)
	}
	return nil
}

// Book marks one cell booked. It returns true when the cell transitioned
// from available to booked, false when it was already booked, and an
// error for out-of-range coordinates. Coordinates are never clamped.
func (s *Showtime) Book(row, col int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRange(row, col); err != nil {
		return false, err
	}
	if s.booked[row][col] {
		return false, nil
	}
	s.booked[row][col] = true
	return true, nil
}

// Cancel frees one cell. It returns true when the cell transitioned from
// booked to available, false when it was already free, and an error for
// out-of-range coordinates.
func (s *Showtime) Cancel(row, col int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRange(row, col); err != nil {
		return false, err
	}
	if !s.booked[row][col] {
		return false, nil
	}
	s.booked[row][col] = false
	return true, nil
}

// IsAvailable reports whether the cell is currently free.
func (s *Showtime) IsAvailable(row, col int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRange(row, col); err != nil {
		return false, err
	}
	return !s.booked[row][col], nil
}

// AvailableSeatCount scans the grid and counts free cells. The scan is
// O(rows*cols); grids are tens of seats and the count is only needed when
// listing, so no incremental counter is kept.
func (s *Showtime) AvailableSeatCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for r := 0; r < s.rows; r++ {
		for c := 0; c < s.cols; c++ {
			if !s.booked[r][c] {
				count++
			}
		}
	}
	return count
}

// bookedCountLocked counts booked cells. Caller must hold mu.
func (s *Showtime) bookedCountLocked() int {
	count := 0
	for r := 0; r < s.rows; r++ {
		for c := 0; c < s.cols; c++ {
			if s.booked[r][c] {
				count++
			}
		}
	}
	return count
}

// DynamicPrice computes the current per-seat price from occupancy:
// basePrice * (1 + booked/total). An empty house sells at base price, a
// half-full house at 1.5x. The value is computed on demand from the live
// grid and is never cached, so it can move between a client listing a
// showtime and submitting a booking.
func (s *Showtime) DynamicPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dynamicPriceLocked()
}

func (s *Showtime) dynamicPriceLocked() float64 {
	total := s.rows * s.cols
	occupancy := float64(s.bookedCountLocked()) / float64(total)
	return s.basePrice * (1 + occupancy)
}

// BookAll books every referenced seat as one atomic unit, or none of
// them. Under a single hold of the showtime mutex it checks, in order:
// the has-started gate, that at least one seat was requested, that every
// coordinate is in range, that the request contains no duplicate
// coordinates, and that every cell is currently free. Only when all
// checks pass does it flip any cell, so a rejected request leaves the
// grid byte-for-byte unchanged.
//
// On success it returns one Seat record per request entry, each priced at
// the dynamic price in force at this instant (the occupancy before this
// booking counts toward the price, the booking itself does not).
func (s *Showtime) BookAll(now time.Time, refs []SeatRef) ([]Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.HasStarted(now) {
		return nil, ErrShowtimeStarted
	}
	if len(refs) == 0 {
		return nil, ErrNoSeats
	}
	seen := make(map[SeatRef]bool, len(refs))
	for _, ref := range refs {
		if err := s.checkRange(ref.Row, ref.Col); err != nil {
			return nil, err
		}
		if seen[ref] {
			return nil, fmt.Errorf("seat %d:%d requested twice: %w", ref.Row, ref.Col, ErrDuplicateSeat)
		}
		seen[ref] = true
		if s.booked[ref.Row][ref.Col] {
			return nil, fmt.Errorf("seat %d:%d: %w", ref.Row, ref.Col, ErrSeatTaken)
		}
	}

	price := s.dynamicPriceLocked()
	seats := make([]Seat, 0, len(refs))
	for _, ref := range refs {
		s.booked[ref.Row][ref.Col] = true
		seats = append(seats, Seat{Row: ref.Row, Col: ref.Col, Price: price, Booked: true})
	}
	return seats, nil
}

// Grid returns a copy of the booked matrix for rendering or snapshotting.
func (s *Showtime) Grid() [][]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	grid := make([][]bool, s.rows)
	for r := 0; r < s.rows; r++ {
		grid[r] = make([]bool, s.cols)
		copy(grid[r], s.booked[r])
	}
	return grid
}

// RestoreGrid overwrites the booked matrix from a snapshot. The snapshot
// dimensions must match the showtime's.
func (s *Showtime) RestoreGrid(grid [][]bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(grid) != s.rows {
		return fmt.Errorf("snapshot has %d rows, showtime has %d: %w", len(grid), s.rows, ErrBadDimensions)
	}
	for r, row := range grid {
		if len(row) != s.cols {
			return fmt.Errorf("snapshot row %d has %d cols, showtime has %d: %w", r, len(row), s.cols, ErrBadDimensions)
		}
		copy(s.booked[r], row)
	}
	return nil
}
