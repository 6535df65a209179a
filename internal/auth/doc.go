// Package auth provides admin registration, login and session handling.
//
// Passwords are stored as werkzeug-compatible PBKDF2-HMAC-SHA256 hashes
// (pbkdf2:sha256:<iterations>$<salt>$<hex>). Legacy bcrypt hashes still
// verify and are upgraded on the next successful login.
//
// # Configuration
//
//	AUTH_SESSION_SECRET=<hex-32-bytes>  # CSRF signing key, auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h           # Session duration
//	AUTH_SECURE_COOKIES=true            # HTTPS-only cookies
//	AUTH_PBKDF2_ITERATIONS=600000       # Work factor for new hashes
//	AUTH_MIN_PASSWORD_LENGTH=8
//	AUTH_MAX_LOGIN_ATTEMPTS=5           # Failed logins before lockout
//
// # Usage
//
// Initialize authentication in entrypoint:
//
//	authService := auth.NewService(admins.NewRepository(db), cfg.Auth)
//	sessions, err := auth.NewSessionManager(sqlDB, cfg.Auth)
//	router.Use(sessions.SessionLoadSave())
//
// Protect routes:
//
//	admin := router.Group("/", sessions.RequireAdmin())
//	username := auth.GetUsername(c)
package auth
