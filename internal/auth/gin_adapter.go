package auth

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
)

// sessionWriter commits the admin session right before the response headers
// go out. Cookies cannot be added once the status line is written.
type sessionWriter struct {
	gin.ResponseWriter
	commit func()
	once   sync.Once
}

func (w *sessionWriter) commitOnce() {
	w.once.Do(w.commit)
}

func (w *sessionWriter) WriteHeader(code int) {
	w.commitOnce()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) WriteHeaderNow() {
	w.commitOnce()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.commitOnce()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) WriteString(s string) (int, error) {
	w.commitOnce()
	return w.ResponseWriter.WriteString(s)
}

// SessionLoadSave loads the admin session for the request and stores the
// signed-in username under ContextKeyUsername ("" for visitors), so later
// handlers and templates read it with GetUsername. A login, logout or token
// renewal made by the handler is saved and its cookie set before the
// response is sent.
func (sm *SessionManager) SessionLoadSave() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if cookie, err := c.Request.Cookie(sm.Cookie.Name); err == nil {
			token = cookie.Value
		}

		ctx, err := sm.Load(c.Request.Context(), token)
		if err != nil {
			log.Printf("Failed to load admin session: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Set(ContextKeyUsername, sm.Username(c.Request))

		inner := c.Writer
		sw := &sessionWriter{ResponseWriter: inner}
		sw.commit = func() { sm.saveSession(inner, c.Request) }
		c.Writer = sw

		c.Next()

		// Handlers that never wrote a header still need the cookie
		sw.commitOnce()
	}
}

// saveSession persists a modified session and sets or clears the cookie.
func (sm *SessionManager) saveSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch sm.Status(ctx) {
	case scs.Modified:
		token, expiry, err := sm.Commit(ctx)
		if err != nil {
			log.Printf("Failed to save session for %q: %v", sm.Username(r), err)
			return
		}
		sm.WriteSessionCookie(ctx, w, token, expiry)
	case scs.Destroyed:
		sm.WriteSessionCookie(ctx, w, "", time.Time{})
	}
}
