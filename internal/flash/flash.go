// Package flash resolves one-shot status messages shown after a redirect.
//
// Redirects carry only a short code in the query string (?flash=book_added);
// the text and category come from a fixed table, so no per-session state is
// kept and no arbitrary text can be injected into a page.
package flash

import (
	"net/url"
	"strings"
)

// QueryParam is the query string parameter that carries a flash code.
const QueryParam = "flash"

// Category selects how a message is styled.
type Category string

const (
	Success Category = "success"
	Danger  Category = "danger"
	Info    Category = "info"
)

// Code identifies a message in the table.
type Code string

const (
	BookAdded           Code = "book_added"
	BookUpdated         Code = "book_updated"
	BookDeleted         Code = "book_deleted"
	InvalidName         Code = "invalid_name"
	InvalidPrice        Code = "invalid_price"
	InvalidStock        Code = "invalid_stock"
	Registered          Code = "registered"
	UsernameTaken       Code = "username_taken"
	EmailTaken          Code = "email_taken"
	RegistrationInvalid Code = "registration_invalid"
	LoginOK             Code = "login_ok"
	InvalidCredentials  Code = "invalid_credentials"
	TooManyAttempts     Code = "too_many_attempts"
	LoginRequired       Code = "login_required"
	LoggedOut           Code = "logged_out"
	SessionExpired      Code = "session_expired"
	DemoMode            Code = "demo_mode"
)

// Message is a resolved flash ready for rendering.
type Message struct {
	Category Category
	Text     string
}

var messages = map[Code]Message{
	BookAdded:           {Success, "Book added successfully!"},
	BookUpdated:         {Success, "Book updated successfully!"},
	BookDeleted:         {Danger, "Book deleted successfully!"},
	InvalidName:         {Danger, "Book name must not be empty."},
	InvalidPrice:        {Danger, "Price must be a non-negative number."},
	InvalidStock:        {Danger, "Stock must be a non-negative whole number."},
	Registered:          {Success, "Account created! Please log in."},
	UsernameTaken:       {Danger, "Username is already registered. Please choose another one."},
	EmailTaken:          {Danger, "Email is already registered. Please use another one."},
	RegistrationInvalid: {Danger, "Please fill in a username, a valid email and a long enough password."},
	LoginOK:             {Success, "Login successful!"},
	InvalidCredentials:  {Danger, "Wrong username or password!"},
	TooManyAttempts:     {Danger, "Too many login attempts. Please try again later."},
	LoginRequired:       {Info, "Please log in to continue."},
	LoggedOut:           {Info, "Logout successful!"},
	SessionExpired:      {Danger, "Session expired. Please try again."},
	DemoMode:            {Info, "Changes are disabled in demo mode."},
}

// Lookup resolves a code. Unknown codes yield ok == false.
func Lookup(code string) (Message, bool) {
	msg, ok := messages[Code(code)]
	return msg, ok
}

// URL appends the flash code to a local path, keeping any existing query.
func URL(path string, code Code) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + QueryParam + "=" + url.QueryEscape(string(code))
}
