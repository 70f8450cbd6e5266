package auth

import (
	"fmt"
	"regexp"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	// BCryptCost is the cost parameter for bcrypt hashing (12 = ~250ms per hash)
	BCryptCost = 12

	minPasswordLength = 8
)

var (
	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex = regexp.MustCompile(`[a-z]`)
	numberRegex    = regexp.MustCompile(`[0-9]`)
	specialRegex   = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]`)
)

// ValidatePassword validates a password against security requirements:
// minimum 8 printable characters with at least one uppercase letter,
// one lowercase letter, one number, and one special character.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}

	if !uppercaseRegex.MatchString(password) {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}

	if !lowercaseRegex.MatchString(password) {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}

	if !numberRegex.MatchString(password) {
		return fmt.Errorf("password must contain at least one number")
	}

	if !specialRegex.MatchString(password) {
		return fmt.Errorf("password must contain at least one special character")
	}

	for _, r := range password {
		if !unicode.IsPrint(r) {
			return fmt.Errorf("password contains invalid characters")
		}
	}

	return nil
}

// HashPassword hashes a password using bcrypt with cost 12
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	if err := ValidatePassword(password); err != nil {
		return "", fmt.Errorf("invalid password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BCryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword verifies a password against a bcrypt hash in constant time
func VerifyPassword(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
