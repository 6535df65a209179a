package auth

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/bookstore/internal/config"
)

// SessionKeyAdmin holds the authenticated admin's username.
const SessionKeyAdmin = "admin"

// SessionManager wraps scs.SessionManager with application-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager.
// The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	// Create sessions table if it doesn't exist
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2 // Half of lifetime for inactivity

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// Login marks the session as authenticated for the given admin.
// The token is renewed first to prevent session fixation.
func (sm *SessionManager) Login(r *http.Request, username string) error {
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}
	sm.Put(r.Context(), SessionKeyAdmin, username)
	return nil
}

// Logout returns the session to the anonymous state. Logging out an
// anonymous session is a no-op.
func (sm *SessionManager) Logout(r *http.Request) {
	ctx := r.Context()
	if !sm.Exists(ctx, SessionKeyAdmin) {
		return
	}
	sm.Remove(ctx, SessionKeyAdmin)
	if err := sm.RenewToken(ctx); err != nil {
		log.Printf("Failed to renew session token on logout: %v", err)
	}
}

// Username returns the authenticated admin's username, or "" for anonymous sessions.
func (sm *SessionManager) Username(r *http.Request) string {
	return sm.GetString(r.Context(), SessionKeyAdmin)
}

// IsAuthenticated returns true if the request carries an admin session.
func (sm *SessionManager) IsAuthenticated(r *http.Request) bool {
	return sm.Username(r) != ""
}
