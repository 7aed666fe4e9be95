package security

import (
	"errors"
	"fmt"
	"sync"

	"github.com/geocoder89/petmarket/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor (2^10 rounds).
const PasswordCost = bcrypt.DefaultCost

// bcrypt only reads the first 72 bytes; longer input is refused, not truncated.
var ErrPasswordTooLong = apperr.New(apperr.ErrValidation, "Password must be at most 72 bytes")

var decoyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("petmarket-decoy"), PasswordCost)
	if err != nil {
		panic(err)
	}
	return h
})

// HashPassword hashes a plain text password with a salted bcrypt hash.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}

// PasswordMatches reports whether plain matches hash. An empty hash (unknown
// account) is compared against a decoy so it costs the same and never matches.
func PasswordMatches(hash, plain string) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(decoyHash(), []byte(plain))
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
