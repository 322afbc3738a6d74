// Package validation checks and cleans user-supplied input.
package validation

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const maxEmailLength = 254

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	strict     = bluemonday.StrictPolicy()
)

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > maxEmailLength {
		return fmt.Errorf("email must not exceed %d characters", maxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword only requires a non-empty secret.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// Required fails when value is blank.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// Text trims s and returns it otherwise unchanged. Input that carries HTML
// markup (elements or comments) is rejected instead of being rewritten, so
// "a < b", "&" and entity text like "&lt;" are stored exactly as submitted.
func Text(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	// The strict policy keeps only text; comparing decoded forms ignores
	// its entity escaping and leaves markup as the only difference.
	if html.UnescapeString(strict.Sanitize(s)) != html.UnescapeString(s) {
		return "", fmt.Errorf("%s must not contain HTML markup", field)
	}
	return s, nil
}
