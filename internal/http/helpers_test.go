package http

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookstore/internal/catalog"
	"github.com/mrlokans/bookstore/internal/flash"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(t *testing.T, w *httptest.ResponseRecorder) *gin.Context {
	t.Helper()
	c, engine := gin.CreateTestContext(w)
	engine.SetHTMLTemplate(template.Must(loadTemplates("")))
	c.Request = httptest.NewRequest("GET", "/", nil)
	return c
}

func TestParseIDParam_Valid(t *testing.T) {
	w := httptest.NewRecorder()
	c := newTestContext(t, w)
	c.Params = gin.Params{{Key: "id", Value: "123"}}

	id, ok := parseIDParam(c, "id")

	assert.True(t, ok)
	assert.Equal(t, uint(123), id)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParseIDParam_Invalid(t *testing.T) {
	for _, value := range []string{"abc", "-1", "0", "1.5", ""} {
		t.Run(value, func(t *testing.T) {
			w := httptest.NewRecorder()
			c := newTestContext(t, w)
			c.Params = gin.Params{{Key: "id", Value: value}}

			id, ok := parseIDParam(c, "id")

			assert.False(t, ok)
			assert.Equal(t, uint(0), id)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Contains(t, w.Body.String(), "Page not found")
		})
	}
}

func TestParsePageQuery(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"/", 1},
		{"/?page=3", 3},
		{"/?page=0", 1},
		{"/?page=-4", 1},
		{"/?page=abc", 1},
		{"/?page=2.5", 1},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", tt.query, nil)

			assert.Equal(t, tt.want, parsePageQuery(c))
		})
	}
}

func TestCurrentFlash(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	c.Request = httptest.NewRequest("GET", "/?flash=book_added", nil)
	msg := currentFlash(c)
	require.NotNil(t, msg)
	assert.Equal(t, flash.Success, msg.Category)

	c.Request = httptest.NewRequest("GET", "/?flash=unknown_code", nil)
	assert.Nil(t, currentFlash(c))
}

func TestValidationFlash(t *testing.T) {
	assert.Equal(t, flash.InvalidName, validationFlash(&catalog.ValidationError{Field: catalog.FieldName}))
	assert.Equal(t, flash.InvalidPrice, validationFlash(&catalog.ValidationError{Field: catalog.FieldPrice}))
	assert.Equal(t, flash.InvalidStock, validationFlash(&catalog.ValidationError{Field: catalog.FieldStock}))
}

func TestLoginURL(t *testing.T) {
	assert.Equal(t, "/login?flash=invalid_credentials", loginURL(flash.InvalidCredentials, ""))
	assert.Equal(t, "/login?flash=invalid_credentials", loginURL(flash.InvalidCredentials, "/"))
	assert.Equal(t, "/login?flash=invalid_credentials", loginURL(flash.InvalidCredentials, "//evil.com"))
	assert.Equal(t, "/login?flash=too_many_attempts&next=%2Fadd_book", loginURL(flash.TooManyAttempts, "/add_book"))
}

func TestLoadTemplates(t *testing.T) {
	t.Run("embedded", func(t *testing.T) {
		tmpl, err := loadTemplates("")
		require.NoError(t, err)

		for _, name := range []string{"index.html", "add_book.html", "edit_book.html", "login.html", "register.html", "not_found.html", "error.html"} {
			assert.NotNil(t, tmpl.Lookup(name), name)
		}
	})

	t.Run("override directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.html"), []byte(`{{price 3.5}}`), 0o600))

		tmpl, err := loadTemplates(dir)
		require.NoError(t, err)
		assert.NotNil(t, tmpl.Lookup("custom.html"))
		assert.Nil(t, tmpl.Lookup("index.html"))
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	})
}
