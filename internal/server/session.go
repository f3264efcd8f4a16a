package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"strings"

	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/model"
	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/store"
)

// session is the per-connection command-processing context: one client,
// one socket, one authentication state. It reads commands strictly in
// arrival order and writes exactly one response block per command; all
// mutation of shared state goes through the store and showtime locks.
type session struct {
	srv      *Server
	conn     net.Conn
	remoteIP string

	// user is non-nil while the client is authenticated. It is only
	// touched from this session's goroutine.
	user *model.User
}

func newSession(srv *Server, conn net.Conn) *session {
	ip := ""
	if addr, ok := conn.RemoteAddr().(*net.TCPAddr); ok {
		ip = addr.IP.String()
	}
	return &session{srv: srv, conn: conn, remoteIP: ip}
}

// run drives the command loop until the client disconnects. A bad command
// never ends the loop; only socket I/O failure or EOF does. Lines are read
// without a length cap so an oversized command is answered like any other
// bad input instead of tearing the session down.
func (s *session) run() {
	defer s.conn.Close()

	s.send(RespConnected + Delimiter + "Cinema booking server ready")

	r := bufio.NewReader(s.conn)
	for {
		raw, err := r.ReadString('\n')
		if line := strings.TrimRight(raw, "\r\n"); line != "" {
			s.dispatch(line)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("server: client %s disconnected: %v", s.remoteIP, err)
			}
			return
		}
	}
}

// dispatch tokenizes one command line and routes it to its handler. A
// panic inside a handler is reported as a generic error response and the
// loop continues.
func (s *session) dispatch(line string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("server: panic handling command from %s: %v", s.remoteIP, r)
			s.sendError(ErrorInternal)
		}
	}()

	parts := strings.Split(line, Delimiter)
	cmd := strings.ToUpper(parts[0])

	if !s.srv.allowCommand(s.limiterKey()) {
		s.sendError(ErrorRateLimited)
		return
	}

	switch cmd {
	case CmdLogin:
		s.handleLogin(parts)
	case CmdRegister:
		s.handleRegister(parts)
	case CmdLogout:
		s.handleLogout()
	case CmdListMovies:
		s.handleListMovies()
	case CmdListShowtimes:
		s.handleListShowtimes(parts)
	case CmdViewSeats:
		s.handleViewSeats(parts)
	case CmdBook:
		s.handleBook(parts)
	case CmdCancel:
		s.handleCancel(parts)
	case CmdMyBookings:
		s.handleMyBookings()
	case CmdAdminAddMovie:
		s.handleAdminAddMovie(parts)
	case CmdAdminAddShowtime:
		s.handleAdminAddShowtime(parts)
	case CmdAdminPromote:
		s.handleAdminPromote(parts)
	case CmdAdminViewAllBooking:
		s.handleAdminViewAllBookings()
	default:
		s.sendError(ErrorInvalidCommand)
	}
}

func (s *Server) allowCommand(key string) bool {
	if s.limiter == nil {
		return true
	}
	return s.limiter.Allow(context.Background(), key)
}

func (s *session) limiterKey() string {
	user := "anon"
	if s.user != nil {
		user = s.user.Username
	}
	ip := s.remoteIP
	if ip == "" {
		ip = "unknown"
	}
	return ip + ":" + user
}

// send writes one raw protocol line. Write failures are left to surface
// as EOF on the read side of the loop.
func (s *session) send(line string) {
	if _, err := fmt.Fprintf(s.conn, "%s\n", line); err != nil {
		log.Printf("server: write to %s failed: %v", s.remoteIP, err)
	}
}

func (s *session) sendSuccess(msg string) {
	s.send(RespSuccess + Delimiter + msg)
}

func (s *session) sendError(msg string) {
	s.send(RespError + Delimiter + msg)
}

// requireAuth gates commands that need a logged-in user.
func (s *session) requireAuth() bool {
	if s.user == nil {
		s.sendError(ErrorAuthRequired)
		return false
	}
	return true
}

// requireAdmin gates the ADMIN_* commands. Authentication is checked
// first so an anonymous client sees AUTH_REQUIRED, not ADMIN_REQUIRED.
func (s *session) requireAdmin() bool {
	if !s.requireAuth() {
		return false
	}
	if !s.user.IsAdmin {
		s.sendError(ErrorAdminRequired)
		return false
	}
	return true
}

// resolveShowtime maps a wire identifier "ST_<index>" to the showtime at
// that index in the store's schedule.
func (s *session) resolveShowtime(id string) (*model.Showtime, error) {
	raw, ok := strings.CutPrefix(id, ShowtimeIDPrefix)
	if !ok {
		return nil, store.ErrShowtimeNotFound
	}
	index, err := strconv.Atoi(raw)
	if err != nil {
		return nil, store.ErrShowtimeNotFound
	}
	return s.srv.store.ShowtimeAt(index)
}

// persist writes the store snapshot after a successful mutation. A failed
// write is logged and the in-memory state stands; the client still sees
// the success response for the mutation that already happened.
func (s *session) persist() {
	if err := s.srv.store.Save(); err != nil {
		log.Printf("store: snapshot write failed: %v", err)
	}
}
