package flash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		code     string
		category Category
	}{
		{"book_added", Success},
		{"book_updated", Success},
		{"book_deleted", Danger},
		{"invalid_credentials", Danger},
		{"logged_out", Info},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			msg, ok := Lookup(tt.code)
			assert.True(t, ok)
			assert.Equal(t, tt.category, msg.Category)
			assert.NotEmpty(t, msg.Text)
		})
	}
}

func TestLookup_UnknownCode(t *testing.T) {
	_, ok := Lookup("<script>alert(1)</script>")
	assert.False(t, ok)

	_, ok = Lookup("")
	assert.False(t, ok)
}

func TestEveryCodeHasMessage(t *testing.T) {
	codes := []Code{
		BookAdded, BookUpdated, BookDeleted, InvalidName, InvalidPrice, InvalidStock,
		Registered, UsernameTaken, EmailTaken, RegistrationInvalid, LoginOK,
		InvalidCredentials, TooManyAttempts, LoginRequired, LoggedOut, SessionExpired, DemoMode,
	}
	for _, code := range codes {
		_, ok := Lookup(string(code))
		assert.True(t, ok, "missing message for %s", code)
	}
}

func TestURL(t *testing.T) {
	assert.Equal(t, "/?flash=book_added", URL("/", BookAdded))
	assert.Equal(t, "/books?page=2&flash=book_deleted", URL("/books?page=2", BookDeleted))
}
