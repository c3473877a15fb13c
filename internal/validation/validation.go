// Package validation provides input validation utilities
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateUserInput checks registration fields and returns a map of field
// name to error message. The map is empty when all fields are valid.
func ValidateUserInput(username, email, password string) map[string]string {
	errs := map[string]string{}

	if !emailRegex.MatchString(email) {
		errs["email"] = "Invalid email address"
	}
	// Length limits count characters, not bytes.
	if n := utf8.RuneCountInString(username); n < 1 || n > 255 {
		errs["username"] = "Username must be between 1 and 255 characters"
	}
	if utf8.RuneCountInString(password) < 8 {
		errs["password"] = "Password must be at least 8 characters"
	}

	return errs
}

// Sanitize strips leading and trailing whitespace. It does not escape HTML
// or script content; callers must not rely on it for anything beyond trimming.
func Sanitize(s string) string {
	return strings.TrimSpace(s)
}
