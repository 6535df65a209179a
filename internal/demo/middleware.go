package demo

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/flash"
)

// ContextKeyDemoMode stores the demo flag in the Gin context for templates.
const ContextKeyDemoMode = "demo_mode"

// Middleware blocks write operations in demo mode.
// Read-only operations (GET) are always allowed, as are login and logout
// so visitors can try the admin views.
type Middleware struct {
	enabled bool
}

// NewMiddleware creates a demo mode middleware.
func NewMiddleware(enabled bool) *Middleware {
	return &Middleware{enabled: enabled}
}

// IsEnabled returns whether demo mode is active.
func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

// Handler returns a Gin middleware that blocks write operations.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyDemoMode, m.enabled)

		if !m.enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if m.isAllowedPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		m.respondBlocked(c)
	}
}

// isAllowedPath checks if a path is allowed for write operations in demo mode.
func (m *Middleware) isAllowedPath(path string) bool {
	allowedPaths := []string{
		"/login",
		"/logout",
	}

	for _, allowed := range allowedPaths {
		if path == allowed || strings.HasPrefix(path, allowed+"/") {
			return true
		}
	}
	return false
}

// respondBlocked answers JSON clients with 403 and browsers with a redirect
// to the catalog carrying the demo_mode flash.
func (m *Middleware) respondBlocked(c *gin.Context) {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "This action is disabled in demo mode",
			"demo_mode": true,
		})
		return
	}

	c.Redirect(http.StatusFound, flash.URL("/", flash.DemoMode))
	c.Abort()
}

// IsDemoMode reports whether the request passed through an enabled demo middleware.
func IsDemoMode(c *gin.Context) bool {
	return c.GetBool(ContextKeyDemoMode)
}
