package model

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"
)

func testMovie(t *testing.T) *Movie {
	t.Helper()
	m, err := NewMovie("Interstellar", "Sci-Fi", "PG-13", 169)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	return m
}

func futureShowtime(t *testing.T, rows, cols int, basePrice float64) *Showtime {
	t.Helper()
	st, err := NewShowtime(testMovie(t), time.Now().Add(24*time.Hour), rows, cols, basePrice, "Aud1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	return st
}

func TestNewShowtimeValidation(t *testing.T) {
	m := testMovie(t)
	when := time.Now().Add(time.Hour)

	if _, err := NewShowtime(nil, when, 2, 2, 5, ""); !errors.Is(err, ErrNilMovie) {
		t.Fatalf("expected ErrNilMovie, got %v", err)
	}
	if _, err := NewShowtime(m, when, 0, 2, 5, ""); !errors.Is(err, ErrBadDimensions) {
		t.Fatalf("expected ErrBadDimensions for zero rows, got %v", err)
	}
	if _, err := NewShowtime(m, when, 2, -1, 5, ""); !errors.Is(err, ErrBadDimensions) {
		t.Fatalf("expected ErrBadDimensions for negative cols, got %v", err)
	}
	if _, err := NewShowtime(m, when, 2, 2, -0.01, ""); !errors.Is(err, ErrNegativePrice) {
		t.Fatalf("expected ErrNegativePrice, got %v", err)
	}
}

func TestFreshGridIsFullyAvailable(t *testing.T) {
	st := futureShowtime(t, 3, 4, 10)
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			ok, err := st.IsAvailable(r, c)
			if err != nil {
				t.Fatalf("expected nil error at (%d,%d), got %v", r, c, err)
			}
			if !ok {
				t.Fatalf("expected seat (%d,%d) available on fresh grid", r, c)
			}
		}
	}
	if got := st.AvailableSeatCount(); got != 12 {
		t.Fatalf("expected 12 available seats, got %d", got)
	}
}

func TestBookThenBookSameCell(t *testing.T) {
	st := futureShowtime(t, 2, 2, 8)

	ok, err := st.Book(0, 1)
	if err != nil || !ok {
		t.Fatalf("first book: expected (true, nil), got (%v, %v)", ok, err)
	}
	ok, err = st.Book(0, 1)
	if err != nil || ok {
		t.Fatalf("second book: expected (false, nil), got (%v, %v)", ok, err)
	}
}

func TestBookCancelCancel(t *testing.T) {
	st := futureShowtime(t, 2, 2, 8)

	if ok, _ := st.Book(1, 0); !ok {
		t.Fatal("expected book to succeed")
	}
	if ok, _ := st.Cancel(1, 0); !ok {
		t.Fatal("expected first cancel to succeed")
	}
	if ok, _ := st.Cancel(1, 0); ok {
		t.Fatal("expected second cancel to report already free")
	}
}

func TestBookOutOfRange(t *testing.T) {
	st := futureShowtime(t, 2, 3, 8)
	cases := []struct{ row, col int }{
		{-1, 0}, {2, 0}, {0, -1}, {0, 3}, {99, 99},
	}
	for _, tc := range cases {
		if _, err := st.Book(tc.row, tc.col); !errors.Is(err, ErrSeatOutOfRange) {
			t.Fatalf("Book(%d,%d): expected ErrSeatOutOfRange, got %v", tc.row, tc.col, err)
		}
		if _, err := st.Cancel(tc.row, tc.col); !errors.Is(err, ErrSeatOutOfRange) {
			t.Fatalf("Cancel(%d,%d): expected ErrSeatOutOfRange, got %v", tc.row, tc.col, err)
		}
		if _, err := st.IsAvailable(tc.row, tc.col); !errors.Is(err, ErrSeatOutOfRange) {
			t.Fatalf("IsAvailable(%d,%d): expected ErrSeatOutOfRange, got %v", tc.row, tc.col, err)
		}
	}
}

func TestDynamicPriceScenario(t *testing.T) {
	// 3x4 grid, base 10: empty house sells at 10, half full at 15,
	// 10 of 12 booked at 10*(1+10/12).
	st := futureShowtime(t, 3, 4, 10.0)

	if got := st.DynamicPrice(); got != 10.0 {
		t.Fatalf("expected price 10.0 at 0%% occupancy, got %v", got)
	}

	booked := 0
	for r := 0; r < 3 && booked < 6; r++ {
		for c := 0; c < 4 && booked < 6; c++ {
			if ok, err := st.Book(r, c); err != nil || !ok {
				t.Fatalf("seed booking (%d,%d) failed: (%v, %v)", r, c, ok, err)
			}
			booked++
		}
	}
	if got := st.DynamicPrice(); got != 15.0 {
		t.Fatalf("expected price 15.0 at 6/12 booked, got %v", got)
	}

	for r := 0; r < 3 && booked < 10; r++ {
		for c := 0; c < 4 && booked < 10; c++ {
			if ok, _ := st.IsAvailable(r, c); !ok {
				continue
			}
			if ok, err := st.Book(r, c); err != nil || !ok {
				t.Fatalf("seed booking (%d,%d) failed: (%v, %v)", r, c, ok, err)
			}
			booked++
		}
	}
	want := 10.0 * (1 + 10.0/12.0)
	if got := st.DynamicPrice(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected price %v at 10/12 booked, got %v", want, got)
	}
}

func TestDynamicPriceMonotonic(t *testing.T) {
	st := futureShowtime(t, 2, 5, 7.5)
	prev := st.DynamicPrice()
	for i := 0; i < 10; i++ {
		if ok, err := st.Book(i/5, i%5); err != nil || !ok {
			t.Fatalf("booking %d failed: (%v, %v)", i, ok, err)
		}
		cur := st.DynamicPrice()
		if cur <= prev {
			t.Fatalf("expected strictly increasing price, got %v after %v at k=%d", cur, prev, i+1)
		}
		prev = cur
	}
}

func TestBookAllBooksEveryRequestedSeat(t *testing.T) {
	st := futureShowtime(t, 3, 3, 12)
	refs := []SeatRef{{0, 0}, {1, 2}, {2, 1}}

	seats, err := st.BookAll(time.Now(), refs)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(seats) != 3 {
		t.Fatalf("expected 3 seat records, got %d", len(seats))
	}
	for _, seat := range seats {
		if seat.Price != 12.0 {
			t.Fatalf("expected captured price 12.0 (0%% occupancy at booking), got %v", seat.Price)
		}
		if !seat.Booked {
			t.Fatal("expected seat record marked booked")
		}
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			want := r == 0 && c == 0 || r == 1 && c == 2 || r == 2 && c == 1
			avail, _ := st.IsAvailable(r, c)
			if avail == want {
				t.Fatalf("seat (%d,%d): availability %v, want booked=%v", r, c, avail, want)
			}
		}
	}
}

func TestBookAllRejectsDuplicateWithoutPartialBooking(t *testing.T) {
	st := futureShowtime(t, 2, 2, 8)

	_, err := st.BookAll(time.Now(), []SeatRef{{0, 0}, {0, 0}})
	if !errors.Is(err, ErrDuplicateSeat) {
		t.Fatalf("expected ErrDuplicateSeat, got %v", err)
	}
	if got := st.AvailableSeatCount(); got != 4 {
		t.Fatalf("expected untouched grid (4 available), got %d", got)
	}
}

func TestBookAllRejectsTakenSeatWithoutPartialBooking(t *testing.T) {
	st := futureShowtime(t, 2, 2, 8)
	if ok, _ := st.Book(1, 1); !ok {
		t.Fatal("seed booking failed")
	}

	_, err := st.BookAll(time.Now(), []SeatRef{{0, 0}, {1, 1}})
	if !errors.Is(err, ErrSeatTaken) {
		t.Fatalf("expected ErrSeatTaken, got %v", err)
	}
	// Only the seed booking remains; (0,0) must not have been flipped.
	if avail, _ := st.IsAvailable(0, 0); !avail {
		t.Fatal("expected (0,0) untouched after rejected request")
	}
	if got := st.AvailableSeatCount(); got != 3 {
		t.Fatalf("expected 3 available seats, got %d", got)
	}
}

func TestBookAllRejectsStartedShowtime(t *testing.T) {
	st, err := NewShowtime(testMovie(t), time.Now().Add(-time.Minute), 2, 2, 8, "Aud1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, err := st.BookAll(time.Now(), []SeatRef{{0, 0}}); !errors.Is(err, ErrShowtimeStarted) {
		t.Fatalf("expected ErrShowtimeStarted, got %v", err)
	}
	if got := st.AvailableSeatCount(); got != 4 {
		t.Fatalf("expected untouched grid, got %d available", got)
	}
}

func TestHasStartedGateIndependentOfSeats(t *testing.T) {
	st := futureShowtime(t, 1, 1, 5)
	if st.HasStarted(time.Now()) {
		t.Fatal("future showtime should not report started")
	}
	if !st.HasStarted(st.DateTime()) {
		t.Fatal("showtime should report started at its exact start time")
	}
}

func TestConcurrentBookSameCellSingleWinner(t *testing.T) {
	st := futureShowtime(t, 1, 1, 5)

	const attempts = 64
	var wg sync.WaitGroup
	results := make(chan bool, attempts)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			ok, err := st.Book(0, 0)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results <- ok
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	wins := 0
	for ok := range results {
		if ok {
			wins++
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
	if got := st.AvailableSeatCount(); got != 0 {
		t.Fatalf("expected 0 available seats, got %d", got)
	}
}

func TestGridAndRestoreGridRoundTrip(t *testing.T) {
	st := futureShowtime(t, 2, 3, 8)
	if ok, _ := st.Book(1, 2); !ok {
		t.Fatal("seed booking failed")
	}

	other := futureShowtime(t, 2, 3, 8)
	if err := other.RestoreGrid(st.Grid()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if avail, _ := other.IsAvailable(1, 2); avail {
		t.Fatal("expected restored grid to keep (1,2) booked")
	}
	if got := other.AvailableSeatCount(); got != 5 {
		t.Fatalf("expected 5 available after restore, got %d", got)
	}

	bad := [][]bool{{false}}
	if err := other.RestoreGrid(bad); !errors.Is(err, ErrBadDimensions) {
		t.Fatalf("expected ErrBadDimensions for mismatched grid, got %v", err)
	}
}
