package auth

import (
	"errors"
	"regexp"
)

// Registration rejections. Each carries the exact reason reported to the
// client.
var (
	ErrBadUsername   = errors.New("username must be 3-20 letters or digits")
	ErrShortPassword = errors.New("password must be at least 6 characters")
	ErrBadEmail      = errors.New("invalid email format")
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9]{3,20}$`)
	// Deliberately loose: one @, at least one dot in the domain part.
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateRegistration checks the shape of registration input. Username
// is alphanumeric and 3-20 characters, password at least 6 characters,
// email a simple x@y.z form. The first failing check wins.
func ValidateRegistration(username, password, email string) error {
	if !usernameRe.MatchString(username) {
		return ErrBadUsername
	}
	if len(password) < 6 {
		return ErrShortPassword
	}
	if !emailRe.MatchString(email) {
		return ErrBadEmail
	}
	return nil
}
