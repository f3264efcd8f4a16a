package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if hash == "secret1" {
		t.Fatal("expected a digest, got the plaintext back")
	}
	if !VerifyPassword(hash, "secret1") {
		t.Fatal("expected correct password to verify")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatal("expected wrong password to fail")
	}
	if VerifyPassword("not-a-bcrypt-hash", "secret1") {
		t.Fatal("expected malformed digest to fail verification")
	}
}

func TestValidateRegistration(t *testing.T) {
	cases := []struct {
		name     string
		username string
		password string
		email    string
		wantErr  error
	}{
		{"valid", "alice", "secret1", "a@b.com", nil},
		{"valid digits", "user42", "hunter22", "u@x.io", nil},
		{"username too short", "ab", "secret1", "a@b.com", ErrBadUsername},
		{"username too long", "abcdefghijklmnopqrstu", "secret1", "a@b.com", ErrBadUsername},
		{"username punctuation", "a_lice", "secret1", "a@b.com", ErrBadUsername},
		{"username empty", "", "secret1", "a@b.com", ErrBadUsername},
		{"password too short", "alice", "five5", "a@b.com", ErrShortPassword},
		{"email no at", "alice", "secret1", "not-an-email", ErrBadEmail},
		{"email no dot", "alice", "secret1", "a@bcom", ErrBadEmail},
		{"email two ats", "alice", "secret1", "a@@b.com", ErrBadEmail},
		{"email empty", "alice", "secret1", "", ErrBadEmail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRegistration(tc.username, tc.password, tc.email)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
