package entrypoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookstore/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Database.Path = filepath.Join(t.TempDir(), "bookstore.db")
	cfg.Auth.PBKDF2Iterations = 1000
	cfg.Auth.SecureCookies = false
	return cfg
}

func TestNewApp_ServesCatalog(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tasks.Enabled = true
	cfg.Demo.Enabled = true

	app, err := NewApp(cfg, "test")
	require.NoError(t, err)
	defer app.Shutdown(context.Background())

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?search=clean", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Clean Code")
	assert.True(t, app.scheduler.IsRunning())
	assert.NotNil(t, app.scheduler.NextRunTime())
}

func TestNewApp_WithoutTasks(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tasks.Enabled = false

	app, err := NewApp(cfg, "test")
	require.NoError(t, err)
	defer app.Shutdown(context.Background())

	assert.Nil(t, app.taskClient)
	assert.Nil(t, app.scheduler)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewApp_RejectsBadSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.Audit.CleanupSchedule = "every day"

	_, err := NewApp(cfg, "test")

	assert.ErrorContains(t, err, "AUDIT_CLEANUP_SCHEDULE")
}

func TestCSRFSecretFromConfig(t *testing.T) {
	t.Run("hex secret is decoded", func(t *testing.T) {
		secret, err := csrfSecretFromConfig("00ff10")
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0xff, 0x10}, secret)
	})

	t.Run("other strings are used as is", func(t *testing.T) {
		secret, err := csrfSecretFromConfig("not hex at all")
		require.NoError(t, err)
		assert.Equal(t, []byte("not hex at all"), secret)
	})

	t.Run("empty generates a random secret", func(t *testing.T) {
		first, err := csrfSecretFromConfig("")
		require.NoError(t, err)
		second, err := csrfSecretFromConfig("")
		require.NoError(t, err)

		assert.Len(t, first, 32)
		assert.NotEqual(t, first, second)
	})
}
