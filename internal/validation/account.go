// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 128
	maxEmailLen    = 254
	maxFullNameLen = 80
	maxBioLen      = 500
	maxFieldLen    = 100
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidatePassword checks if a password meets the length requirements
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLen)
	}

	// Check maximum length (prevent unreasonable inputs; bcrypt also caps at 72 bytes)
	if len(password) > maxPasswordLen {
		return fmt.Errorf("password must not exceed %d characters", maxPasswordLen)
	}

	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}

	if len(email) > maxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", maxEmailLen)
	}

	return nil
}

// ValidateFullName checks a display name.
func ValidateFullName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("full name is required")
	}
	if utf8.RuneCountInString(name) > maxFullNameLen {
		return fmt.Errorf("full name must not exceed %d characters", maxFullNameLen)
	}
	return nil
}

// ValidateBio checks the free-text bio length.
func ValidateBio(bio string) error {
	if utf8.RuneCountInString(bio) > maxBioLen {
		return fmt.Errorf("bio too long (max %d characters)", maxBioLen)
	}
	return nil
}

// ValidateProfileField checks short free-text fields such as location and languages.
func ValidateProfileField(label, value string) error {
	if utf8.RuneCountInString(value) > maxFieldLen {
		return fmt.Errorf("%s too long (max %d characters)", label, maxFieldLen)
	}
	return nil
}
