package http

import (
	"github.com/mrlokans/bookstore/internal/audit"
	"github.com/mrlokans/bookstore/internal/auth"
	"github.com/mrlokans/bookstore/internal/catalog"
	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/demo"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Catalog  *catalog.Service
	Database *database.Database // Only used by the health check

	// Authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	RateLimiter    *auth.RateLimiter // Optional
	CSRFSecret     []byte            // CSRF protection is off when empty
	SecureCookies  bool

	// Optional collaborators
	Auditor        *audit.Service
	DemoMiddleware *demo.Middleware

	// Overrides the embedded templates when set
	TemplatesPath string

	// Application info
	Version string
}
