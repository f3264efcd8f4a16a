package model

// User is one registered account. The username is the business key used by
// login, promotion and ownership checks. The reservation list holds every
// live booking the user owns, in creation order.
//
// A User carries no lock of its own: the store serializes every mutation
// of user state (registration, promotion, reservation list changes) under
// its single lock, and the remaining fields are immutable after creation.
//
// Fields:
//
//	Username     – unique login name, primary identifier.
//	PasswordHash – bcrypt digest of the password; the plaintext is never kept.
//	Email        – registered contact address.
//	IsAdmin      – grants access to the ADMIN_* commands.
//	Reservations – live bookings owned by this user, oldest first.
type User struct {
	Username     string
	PasswordHash string
	Email        string
	IsAdmin      bool
	Reservations []*Reservation
}

// NewUser builds a user from an already-hashed password.
func NewUser(username, passwordHash, email string, isAdmin bool) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		Email:        email,
		IsAdmin:      isAdmin,
	}
}

// AddReservation appends a booking to the user's list. Caller must hold
// the store lock.
func (u *User) AddReservation(r *Reservation) {
	if r != nil {
		u.Reservations = append(u.Reservations, r)
	}
}

// RemoveReservation drops the booking with the given ID from the user's
// list, if present. Caller must hold the store lock.
func (u *User) RemoveReservation(bookingID string) {
	for i, r := range u.Reservations {
		if r.BookingID == bookingID {
			u.Reservations = append(u.Reservations[:i], u.Reservations[i+1:]...)
			return
		}
	}
}

// HasReservation reports whether the user owns the booking with the given
// ID.
func (u *User) HasReservation(bookingID string) bool {
	for _, r := range u.Reservations {
		if r.BookingID == bookingID {
			return true
		}
	}
	return false
}
