package auth

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/flash"
)

// ContextKeyUsername is the Gin context key for the authenticated admin.
const ContextKeyUsername = "auth_username"

// LoginPath is where anonymous visitors are sent for protected routes.
const LoginPath = "/login"

// ErrAuthRequired is logged when an anonymous request reaches a protected route.
var ErrAuthRequired = errors.New("authentication required")

// RequireAdmin aborts anonymous requests with a redirect to the login page.
// GET requests remember the original path in the "next" parameter.
func (sm *SessionManager) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := sm.Username(c.Request)
		if username == "" {
			log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, ErrAuthRequired)
			query := url.Values{}
			query.Set(flash.QueryParam, string(flash.LoginRequired))
			if c.Request.Method == http.MethodGet {
				query.Set("next", SanitizeRedirectPath(c.Request.URL.RequestURI()))
			}
			c.Redirect(http.StatusFound, LoginPath+"?"+query.Encode())
			c.Abort()
			return
		}
		c.Set(ContextKeyUsername, username)
		c.Next()
	}
}

// GetUsername retrieves the authenticated admin's username from the context.
func GetUsername(c *gin.Context) string {
	if name, exists := c.Get(ContextKeyUsername); exists {
		if username, ok := name.(string); ok {
			return username
		}
	}
	return ""
}

// IsAuthenticated returns true if the request is authenticated.
func IsAuthenticated(c *gin.Context) bool {
	return GetUsername(c) != ""
}

// IsLocalPath validates that a redirect path is local to prevent open redirect attacks.
func IsLocalPath(path string) bool {
	if path == "" {
		return false
	}

	// Must start with /
	if !strings.HasPrefix(path, "/") {
		return false
	}

	// Reject protocol-relative URLs (//evil.com)
	if strings.HasPrefix(path, "//") {
		return false
	}

	// Reject URLs with schemes
	if strings.Contains(path, "://") {
		return false
	}

	// Reject paths with backslashes (potential bypass attempts)
	if strings.Contains(path, "\\") {
		return false
	}

	return true
}

// SanitizeRedirectPath returns a safe redirect path, defaulting to "/" if invalid.
func SanitizeRedirectPath(path string) string {
	if IsLocalPath(path) {
		return path
	}
	return "/"
}
