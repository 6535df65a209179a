package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/config"
)

func TestRateLimiter_AllowsInitialAttempts(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     3,
		WindowDuration:  time.Minute,
		LockoutDuration: time.Minute,
		CleanupInterval: time.Hour, // Long interval to prevent cleanup during test
	})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow("192.168.1.1", "alice")
		if !allowed {
			t.Errorf("Attempt %d should be allowed", i+1)
		}
		rl.RecordFailure("192.168.1.1", "alice")
	}

	allowed, retryAfter := rl.Allow("192.168.1.1", "alice")
	if allowed {
		t.Error("4th attempt should be blocked")
	}
	if retryAfter == 0 {
		t.Error("retryAfter should be non-zero when blocked")
	}
}

func TestRateLimiter_SuccessResetsCounter(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     3,
		WindowDuration:  time.Minute,
		LockoutDuration: time.Minute,
		CleanupInterval: time.Hour,
	})
	defer rl.Stop()

	rl.RecordFailure("192.168.1.1", "alice")
	rl.RecordFailure("192.168.1.1", "alice")
	rl.RecordSuccess("192.168.1.1", "alice")

	if allowed, _ := rl.Allow("192.168.1.1", "alice"); !allowed {
		t.Error("Should be allowed after successful login")
	}
}

func TestRateLimiter_UsernameCaseDoesNotResetCounter(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     2,
		WindowDuration:  time.Minute,
		LockoutDuration: time.Minute,
		CleanupInterval: time.Hour,
	})
	defer rl.Stop()

	rl.RecordFailure("10.0.0.1", "alice")
	rl.RecordFailure("10.0.0.1", "ALICE")

	if allowed, _ := rl.Allow("10.0.0.1", "Alice"); allowed {
		t.Error("differently cased usernames should share a counter")
	}
}

func TestRateLimiter_DifferentUsersAreIndependent(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     2,
		WindowDuration:  time.Minute,
		LockoutDuration: time.Minute,
		CleanupInterval: time.Hour,
	})
	defer rl.Stop()

	rl.RecordFailure("10.0.0.1", "alice")
	rl.RecordFailure("10.0.0.1", "alice")

	if allowed, _ := rl.Allow("10.0.0.1", "alice"); allowed {
		t.Error("alice should be locked out")
	}
	if allowed, _ := rl.Allow("10.0.0.1", "bob"); !allowed {
		t.Error("bob should not be affected by alice's failures")
	}
	if allowed, _ := rl.Allow("10.0.0.2", "alice"); !allowed {
		t.Error("another IP should not be affected")
	}
}

func TestSecurity_RateLimiterStopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimitConfig())
	rl.Stop()
	rl.Stop()
}

func TestSecurity_RateLimitConfigFromAuth(t *testing.T) {
	cfg := RateLimitConfigFromAuth(config.Auth{
		MaxLoginAttempts: 7,
		RateLimitWindow:  time.Minute,
		LockoutDuration:  2 * time.Minute,
	})

	if cfg.MaxAttempts != 7 || cfg.WindowDuration != time.Minute || cfg.LockoutDuration != 2*time.Minute {
		t.Errorf("unexpected rate limit config: %+v", cfg)
	}
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	headers := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}

	for header, expected := range headers {
		if got := rr.Header().Get(header); got != expected {
			t.Errorf("Header %s = %q, want %q", header, got, expected)
		}
	}

	if csp := rr.Header().Get("Content-Security-Policy"); csp == "" {
		t.Error("Content-Security-Policy header should be set")
	}
}

func TestHSTSHeader(t *testing.T) {
	router := gin.New()
	router.Use(StrictTransportSecurityMiddleware(31536000))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if hsts := rr.Header().Get("Strict-Transport-Security"); hsts != "" {
		t.Error("HSTS should not be set for HTTP requests")
	}

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if hsts := rr.Header().Get("Strict-Transport-Security"); hsts != "max-age=31536000; includeSubDomains" {
		t.Errorf("unexpected HSTS header %q", hsts)
	}
}
