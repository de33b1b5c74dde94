// Package validation contains input constraint checks for domain entities.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// emailRegex accepts the simple local@domain.tld shape. Uniqueness is a
// store concern, not a shape concern.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// MaxBodyLength bounds thought and reaction text.
const MaxBodyLength = 280

// NormalizeUsername trims surrounding whitespace and validates the result
// is non-empty. Returns the normalized username.
func NormalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("username is required")
	}
	return username, nil
}

// ValidateEmail checks the email is present and matches the expected shape.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("please enter a valid email address")
	}
	return nil
}

// ValidateBody checks a text body (thought text or reaction body) is
// between 1 and MaxBodyLength characters.
func ValidateBody(field, body string) error {
	if body == "" {
		return fmt.Errorf("%s is required", field)
	}
	if utf8.RuneCountInString(body) > MaxBodyLength {
		return fmt.Errorf("%s must be at most %d characters", field, MaxBodyLength)
	}
	return nil
}
