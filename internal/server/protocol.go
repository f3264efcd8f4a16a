// Package server implements the line-oriented booking protocol: a TCP
// listener that runs one session per connection, and the per-session
// command loop that parses requests, drives the store and the showtime
// grids, and writes structured responses.
//
// Every message on the wire is one newline-terminated ASCII line of
// fields separated by '|': TOKEN|field1|field2|... Requests carry a
// command token first; responses carry SUCCESS or ERROR first, with
// list-shaped responses followed by a declared number of detail lines
// and a terminator line.
package server

// Command tokens, matched case-insensitively.
const (
	CmdLogin               = "LOGIN"
	CmdRegister            = "REGISTER"
	CmdLogout              = "LOGOUT"
	CmdListMovies          = "LIST_MOVIES"
	CmdListShowtimes       = "LIST_SHOWTIMES"
	CmdViewSeats           = "VIEW_SEATS"
	CmdBook                = "BOOK"
	CmdCancel              = "CANCEL"
	CmdMyBookings          = "MY_BOOKINGS"
	CmdAdminAddMovie       = "ADMIN_ADD_MOVIE"
	CmdAdminAddShowtime    = "ADMIN_ADD_SHOWTIME"
	CmdAdminPromote        = "ADMIN_PROMOTE"
	CmdAdminViewAllBooking = "ADMIN_VIEW_ALL_BOOKINGS"
)

// Response tokens.
const (
	RespSuccess       = "SUCCESS"
	RespError         = "ERROR"
	RespConnected     = "CONNECTED"
	RespMovie         = "MOVIE"
	RespShowtime      = "SHOWTIME"
	RespBooking       = "BOOKING"
	RespBookingDetail = "BOOKING_DETAIL"
	RespRow           = "ROW"
	RespEndList       = "END_LIST"
	RespEndSeats      = "END_SEATS"
)

// Structural error codes, sent verbatim after ERROR|. Domain rejections
// (seat taken, bad credentials, ...) use human-readable messages instead.
const (
	ErrorAuthRequired   = "AUTH_REQUIRED"
	ErrorAdminRequired  = "ADMIN_REQUIRED"
	ErrorInvalidCommand = "INVALID_COMMAND"
	ErrorInvalidFormat  = "INVALID_FORMAT"
	ErrorInternal       = "INTERNAL_ERROR"
	ErrorRateLimited    = "RATE_LIMITED"
)

// Delimiters and identifier shapes.
const (
	Delimiter     = "|"
	SeatDelimiter = ":"
	SeatSeparator = ","

	ShowtimeIDPrefix = "ST_"

	// TimeLayout is the wire format for showtime schedules.
	TimeLayout = "2006-01-02 15:04"
)
