package http

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/auth"
)

//go:embed templates/*.html
var templatesFS embed.FS

// hstsMaxAge is one year.
const hstsMaxAge = 31536000

// NewRouter creates and configures the HTTP router with all endpoints.
// SessionManager, AuthService and Catalog are required; the rest is optional.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(gin.LoggerWithFormatter(accessLogFormatter))
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware(hstsMaxAge))
	}

	// Loads the admin session and records the username for every later handler
	router.Use(cfg.SessionManager.SessionLoadSave())

	// Inject auth data for templates
	router.Use(AuthContextMiddleware())

	if cfg.DemoMiddleware != nil {
		router.Use(cfg.DemoMiddleware.Handler())
	}

	// CSRF is attached per group: on admin routes it runs after RequireAdmin,
	// so visitors without a session are sent to the login page first.
	var csrfProtect []gin.HandlerFunc
	if len(cfg.CSRFSecret) > 0 {
		csrfProtect = append(csrfProtect, auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	router.SetHTMLTemplate(template.Must(loadTemplates(cfg.TemplatesPath)))
	router.NoRoute(respondNotFound)

	health := NewHealthController(cfg.Database, cfg.Version)
	books := NewBooksController(cfg.Catalog)
	accounts := NewAccountsController(cfg.AuthService, cfg.SessionManager, cfg.RateLimiter, cfg.Auditor)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	public := router.Group("/", csrfProtect...)

	// Public catalog
	public.GET("/", books.Index)

	// Account routes
	public.GET("/register", accounts.RegisterPage)
	public.POST("/register", accounts.Register)
	public.GET("/login", accounts.LoginPage)
	public.POST("/login", accounts.Login)
	public.GET("/logout", accounts.Logout)

	// Catalog management requires an admin session
	admin := router.Group("/", append([]gin.HandlerFunc{cfg.SessionManager.RequireAdmin()}, csrfProtect...)...)
	admin.GET("/add_book", books.AddBookPage)
	admin.POST("/add_book", books.AddBook)
	admin.GET("/edit_book/:id", books.EditBookPage)
	admin.POST("/edit_book/:id", books.EditBook)
	admin.POST("/delete_book/:id", books.DeleteBook)

	return router
}

// loadTemplates parses the page templates from dir, or the embedded set when dir is empty.
func loadTemplates(dir string) (*template.Template, error) {
	tmpl := template.New("").Funcs(templateFuncs())
	if dir != "" {
		return tmpl.ParseGlob(filepath.Join(dir, "*.html"))
	}
	return tmpl.ParseFS(templatesFS, "templates/*.html")
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"price": func(value float64) string {
			return fmt.Sprintf("%.2f", value)
		},
		// priceInput is the exact stored value for form fields.
		"priceInput": func(value float64) string {
			return strconv.FormatFloat(value, 'f', -1, 64)
		},
		// pageURL links to a listing page, keeping the current search.
		"pageURL": func(page int, search string) string {
			query := url.Values{}
			query.Set("page", strconv.Itoa(page))
			if search != "" {
				query.Set("search", search)
			}
			return "/?" + query.Encode()
		},
	}
}
