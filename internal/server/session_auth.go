package server

import (
	"errors"
	"fmt"
	"log"

	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/auth"
	"github.com/naisha-patel-radiantgraph/cinema-booking/internal/model"
)

// handleLogin authenticates the session. LOGIN|user|pass ->
// SUCCESS|Welcome <user>!|<isAdmin> or ERROR|Invalid credentials. A miss
// on the username and a wrong password produce the same error so the
// response does not leak which usernames exist.
func (s *session) handleLogin(parts []string) {
	if len(parts) != 3 {
		s.sendError(ErrorInvalidFormat)
		return
	}
	username, password := parts[1], parts[2]

	u, err := s.srv.store.FindUser(username)
	if err != nil || !auth.VerifyPassword(u.PasswordHash, password) {
		s.sendError("Invalid credentials")
		return
	}
	s.user = u
	s.sendSuccess(fmt.Sprintf("Welcome %s!%s%t", u.Username, Delimiter, u.IsAdmin))
}

// handleRegister creates an account. REGISTER|user|pass|email ->
// SUCCESS|Account created successfully or ERROR|<reason>.
func (s *session) handleRegister(parts []string) {
	if len(parts) != 4 {
		s.sendError(ErrorInvalidFormat)
		return
	}
	username, password, email := parts[1], parts[2], parts[3]

	if err := auth.ValidateRegistration(username, password, email); err != nil {
		s.sendError(registrationMessage(err))
		return
	}
	hash, err := auth.HashPassword(password, s.srv.bcryptCost)
	if err != nil {
		log.Printf("server: hash password for %s: %v", username, err)
		s.sendError(ErrorInternal)
		return
	}
	if err := s.srv.store.AddUser(model.NewUser(username, hash, email, false)); err != nil {
		s.sendError("Username already taken")
		return
	}
	s.persist()
	s.sendSuccess("Account created successfully")
}

// handleLogout drops the session's authentication state. Always succeeds,
// even for a client that never logged in.
func (s *session) handleLogout() {
	s.user = nil
	s.sendSuccess("Logged out successfully")
}

// registrationMessage maps validation rejections to the protocol-facing
// reason strings.
func registrationMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrBadUsername):
		return "Invalid username: must be 3-20 letters or digits"
	case errors.Is(err, auth.ErrShortPassword):
		return "Password must be at least 6 characters"
	case errors.Is(err, auth.ErrBadEmail):
		return "Invalid email format"
	default:
		return err.Error()
	}
}
