package model

import "fmt"

// SeatRef identifies one cell in a showtime grid by zero-based coordinates.
// The wire protocol is one-based; the session layer converts exactly once
// when parsing a request, so everything below that boundary works in
// zero-based coordinates.
type SeatRef struct {
	Row int
	Col int
}

// Seat is the historical record of one booked cell held inside a
// reservation. It captures the position and the price that was charged at
// booking time. The flag and price here never feed back into the live
// grid: the showtime's booked matrix is the single authority for current
// availability, and these records exist so a cancelled or listed booking
// can report what was actually paid for which cells.
//
// Fields:
//
//	Row    – zero-based row in the showtime grid.
//	Col    – zero-based column in the showtime grid.
//	Price  – per-seat price captured at booking time.
//	Booked – whether this record still holds its grid cell.
type Seat struct {
	Row    int
	Col    int
	Price  float64
	Booked bool
}

// Label renders the customer-facing seat name: letter row plus one-based
// column, so grid cell (0,0) is "A1" and (1,2) is "B3".
func (s Seat) Label() string {
	return fmt.Sprintf("%c%d", 'A'+rune(s.Row), s.Col+1)
}
