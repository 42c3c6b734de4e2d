package services

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Password comparison modes for admin credentials
const (
	PasswordModeBcrypt = "bcrypt"
	PasswordModePlain  = "plain"
)

// PasswordVerifier compares a supplied password with stored password material
type PasswordVerifier interface {
	Verify(stored, supplied string) bool
}

// BcryptVerifier expects stored material produced by bcrypt
type BcryptVerifier struct{}

func (BcryptVerifier) Verify(stored, supplied string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
}

// PlainVerifier compares stored and supplied values directly.
// Only for admin tables that still hold unhashed passwords.
type PlainVerifier struct{}

func (PlainVerifier) Verify(stored, supplied string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

// NewPasswordVerifier returns the verifier for mode
func NewPasswordVerifier(mode string) (PasswordVerifier, error) {
	switch mode {
	case "", PasswordModeBcrypt:
		return BcryptVerifier{}, nil
	case PasswordModePlain:
		return PlainVerifier{}, nil
	default:
		return nil, fmt.Errorf("unknown password mode %q", mode)
	}
}

// HashPassword produces bcrypt material for provisioning admin rows
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
