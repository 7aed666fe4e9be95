package security

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/geocoder89/petmarket/internal/apperr"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}

	if hash == "password123" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("HashPassword() returned a non-bcrypt value: %q", hash)
	}

	if !PasswordMatches(hash, "password123") {
		t.Fatal("PasswordMatches() with correct password = false")
	}

	if PasswordMatches(hash, "wrongpassword") {
		t.Fatal("PasswordMatches() with wrong password = true")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("same-password")
	if err != nil {
		t.Fatal(err)
	}
	b, err := HashPassword("same-password")
	if err != nil {
		t.Fatal(err)
	}

	if a == b {
		t.Fatal("two hashes of the same password should differ")
	}
}

func TestHashPassword_Cost(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatal(err)
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatal(err)
	}
	if cost < 10 {
		t.Fatalf("bcrypt cost = %d, want >= 10", cost)
	}
}

func TestHashPassword_TooLong(t *testing.T) {
	// 30 characters but 75 bytes
	_, err := HashPassword(strings.Repeat("ж€", 15))
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("err = %v, want ErrPasswordTooLong", err)
	}
	if apperr.HTTPStatus(err) != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", apperr.HTTPStatus(err))
	}
}

func TestPasswordMatches_EmptyHashNeverMatches(t *testing.T) {
	for _, plain := range []string{"", "password123", "petmarket-decoy"} {
		if PasswordMatches("", plain) {
			t.Fatalf("empty hash matched %q", plain)
		}
	}
}
