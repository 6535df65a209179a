package auth

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"

	"github.com/mrlokans/bookstore/internal/flash"
)

// CSRFFieldName is the form field gorilla/csrf reads the token from.
const CSRFFieldName = "gorilla.csrf.Token"

// CSRFMiddleware creates a Gin middleware for CSRF protection on all unsafe methods.
// When secure is false the request is marked as plaintext HTTP so the
// origin check does not expect https.
func CSRFMiddleware(secret []byte, secure bool) gin.HandlerFunc {
	csrfProtect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.Path("/"),
		csrf.FieldName(CSRFFieldName),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		if !secure {
			c.Request = csrf.PlaintextHTTPRequest(c.Request)
		}

		passed := false
		handler := csrfProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			// Store the CSRF token in the context for templates
			c.Set("csrf_token", csrf.Token(r))
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, c.Request)

		// The error handler already responded; later handlers must not run
		if !passed {
			c.Abort()
		}
	}
}

// csrfErrorHandler handles CSRF validation failures by sending the visitor
// back to the form they came from with a session_expired flash.
func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	if target := refererPath(r); target != "" {
		http.Redirect(w, r, flash.URL(target, flash.SessionExpired), http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Session Expired</title></head>
<body style="font-family: system-ui; max-width: 400px; margin: 100px auto; text-align: center;">
<h1>Session Expired</h1>
<p>Your session has expired or the form submission was invalid.</p>
<p><a href="/">Back to the catalog</a></p>
</body>
</html>`))
}

// refererPath returns the local path of the Referer header, or "" when it
// points elsewhere.
func refererPath(r *http.Request) string {
	referer := r.Referer()
	if referer == "" {
		return ""
	}
	u, err := url.Parse(referer)
	if err != nil {
		return ""
	}
	if u.Host != "" && u.Host != r.Host {
		return ""
	}

	q := u.Query()
	q.Del(flash.QueryParam)
	path := u.Path
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}
	if !IsLocalPath(path) {
		return ""
	}
	return path
}

// GetCSRFToken retrieves the CSRF token from the Gin context.
func GetCSRFToken(c *gin.Context) string {
	if token, exists := c.Get("csrf_token"); exists {
		if t, ok := token.(string); ok {
			return t
		}
	}
	return ""
}

// CSRFTokenField returns an HTML hidden input field with the CSRF token.
func CSRFTokenField(c *gin.Context) string {
	token := GetCSRFToken(c)
	if token == "" {
		return ""
	}
	return `<input type="hidden" name="` + CSRFFieldName + `" value="` + token + `">`
}
