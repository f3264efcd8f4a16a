// Package model defines the domain entities of the booking engine: movies,
// seats, showtimes, users and reservations. Movie and Seat are plain value
// types. Showtime owns the only mutable concurrent state in the package (the
// seat grid) and guards it with its own mutex; User mutation happens under
// the store lock of the owning registry.
package model

// Movie describes one film in the catalog. The title doubles as the
// business key: the store, the wire protocol and reservations all refer to
// a movie by its exact title. Everything except PosterPath is fixed at
// creation.
//
// Fields:
//
//	Title      – unique title, primary identifier across the system.
//	Genre      – free-form genre label.
//	Rating     – audience rating (e.g. "PG-13").
//	Runtime    – runtime in minutes, never negative.
//	PosterPath – optional path to poster artwork; may be empty.
type Movie struct {
	Title      string
	Genre      string
	Rating     string
	Runtime    int
	PosterPath string
}

// NewMovie validates and builds a Movie. An empty title or a negative
// runtime is rejected.
func NewMovie(title, genre, rating string, runtime int) (*Movie, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if runtime < 0 {
		return nil, ErrNegativeRuntime
	}
	return &Movie{Title: title, Genre: genre, Rating: rating, Runtime: runtime}, nil
}
