package sec

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLen is the longest password bcrypt accepts.
const MaxPasswordLen = 72

// ErrPasswordTooLong is returned by [HashPassword] for passwords longer than
// [MaxPasswordLen] bytes.
var ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

// ComparePassword returns an error if the provided password does not resolve to
// the given hash.
func ComparePassword[T ~string | ~[]byte](password T, hash []byte) error {
	return bcrypt.CompareHashAndPassword(hash, []byte(password))
}

// HashPassword generates the hash for a given password.
func HashPassword[T ~string | ~[]byte](password T) ([]byte, error) {
	if len(password) > MaxPasswordLen {
		return nil, ErrPasswordTooLong
	}
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}
