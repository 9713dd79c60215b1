package password

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost used for all stored passwords
const DefaultCost = 12

// MinLength is the minimum accepted password length
const MinLength = 8

var (
	ErrTooShort = errors.New("password must be at least 8 characters")
	ErrTooWeak  = errors.New("password must contain at least one letter and one number")
	ErrTooLong  = errors.New("password must be at most 72 characters")
)

// Hash hashes a password using bcrypt.
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a plaintext password with a stored hash.
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Validate enforces the password policy for new passwords.
func Validate(password string) error {
	if len(password) < MinLength {
		return ErrTooShort
	}
	// bcrypt truncates beyond 72 bytes
	if len(password) > 72 {
		return ErrTooLong
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrTooWeak
	}
	return nil
}
