package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUserInput(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		email      string
		password   string
		wantFields []string
	}{
		{
			name:     "All Valid",
			username: "alice",
			email:    "alice@example.com",
			password: "password123",
		},
		{
			name:       "Invalid Email",
			username:   "alice",
			email:      "not-an-email",
			password:   "password123",
			wantFields: []string{"email"},
		},
		{
			name:       "Empty Username",
			username:   "",
			email:      "alice@example.com",
			password:   "password123",
			wantFields: []string{"username"},
		},
		{
			name:       "Username Too Long",
			username:   strings.Repeat("a", 256),
			email:      "alice@example.com",
			password:   "password123",
			wantFields: []string{"username"},
		},
		{
			// 200 characters but well over 255 bytes; limits count runes.
			name:     "Multibyte Username Within Limit",
			username: strings.Repeat("é", 200),
			email:    "alice@example.com",
			password: "password123",
		},
		{
			name:       "Multibyte Username Too Long",
			username:   strings.Repeat("é", 256),
			email:      "alice@example.com",
			password:   "password123",
			wantFields: []string{"username"},
		},
		{
			name:     "Multibyte Password At Minimum",
			username: "alice",
			email:    "alice@example.com",
			password: strings.Repeat("é", 8),
		},
		{
			name:       "Short Password",
			username:   "alice",
			email:      "alice@example.com",
			password:   "short",
			wantFields: []string{"password"},
		},
		{
			name:       "Everything Wrong",
			username:   "",
			email:      "nope",
			password:   "x",
			wantFields: []string{"email", "username", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateUserInput(tt.username, tt.email, tt.password)
			assert.Len(t, errs, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.Contains(t, errs, field)
			}
		})
	}
}

func TestValidateUserInputMessages(t *testing.T) {
	errs := ValidateUserInput("", "bad", "x")
	assert.Equal(t, "Invalid email address", errs["email"])
	assert.Equal(t, "Username must be between 1 and 255 characters", errs["username"])
	assert.Equal(t, "Password must be at least 8 characters", errs["password"])
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello", Sanitize("  hello \n"))
	assert.Equal(t, "", Sanitize("   "))
	// Sanitization is whitespace-only, never escaping.
	assert.Equal(t, "<script>alert(1)</script>", Sanitize(" <script>alert(1)</script> "))
}
