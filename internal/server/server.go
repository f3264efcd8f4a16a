package server

import (
	"errors"
	"fmt"
	"log"
	"net"
	"sync/atomic"

	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/ratelimit"
	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/store"
)

// Server accepts booking-protocol connections and runs one session per
// socket. Sessions share nothing with each other except the store and
// the showtimes it holds; there is no cross-session queue or scheduler.
type Server struct {
	addr          string
	store         *store.Store
	limiter       *ratelimit.Limiter
	bcryptCost    int
	eventsEnabled bool

	ln      net.Listener
	closing atomic.Bool
	active  atomic.Int64
}

// Options carries the server's collaborators and tunables.
type Options struct {
	Addr          string
	Store         *store.Store
	Limiter       *ratelimit.Limiter
	BcryptCost    int
	EventsEnabled bool
}

// New builds a Server. The store must be non-nil; the limiter may be nil
// (no rate limiting).
func New(opts Options) *Server {
	if opts.Store == nil {
		panic("server: nil store")
	}
	return &Server{
		addr:          opts.Addr,
		store:         opts.Store,
		limiter:       opts.Limiter,
		bcryptCost:    opts.BcryptCost,
		eventsEnabled: opts.EventsEnabled,
	}
}

// Listen binds the TCP listener without accepting yet, so callers can
// learn the bound address before serving (tests bind ":0").
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.ln = ln
	return nil
}

// Addr returns the listener address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve accepts connections until Close. Each accepted socket gets its
// own goroutine running a session command loop; a failed accept is logged
// and retried unless the server is shutting down.
func (s *Server) Serve() error {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	log.Printf("server: listening on %s", s.ln.Addr())
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if s.closing.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Printf("server: accept failed: %v", err)
			continue
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	s.active.Add(1)
	defer s.active.Add(-1)
	newSession(s, conn).run()
}

// Close stops accepting new connections. In-flight sessions are not
// interrupted; they end when their clients disconnect.
func (s *Server) Close() error {
	s.closing.Store(true)
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}

// ActiveSessions reports the number of connected clients.
func (s *Server) ActiveSessions() int64 {
	return s.active.Load()
}
