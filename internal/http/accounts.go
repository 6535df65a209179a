package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/audit"
	"github.com/mrlokans/bookstore/internal/auth"
	"github.com/mrlokans/bookstore/internal/flash"
)

// AccountsController handles admin registration, login and logout.
type AccountsController struct {
	authService *auth.Service
	sessions    *auth.SessionManager
	rateLimiter *auth.RateLimiter // nil disables lockouts
	auditor     *audit.Service    // nil disables auth auditing
}

func NewAccountsController(
	authService *auth.Service,
	sessions *auth.SessionManager,
	rateLimiter *auth.RateLimiter,
	auditor *audit.Service,
) *AccountsController {
	return &AccountsController{
		authService: authService,
		sessions:    sessions,
		rateLimiter: rateLimiter,
		auditor:     auditor,
	}
}

func (ac *AccountsController) RegisterPage(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{"Title": "Register"})
}

func (ac *AccountsController) Register(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")

	admin, err := ac.authService.Register(username, c.PostForm("password"), email)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			redirectWithFlash(c, "/register", flash.EmailTaken)
		case errors.Is(err, auth.ErrUserExists):
			redirectWithFlash(c, "/register", flash.UsernameTaken)
		case isRegistrationInputError(err):
			redirectWithFlash(c, "/register", flash.RegistrationInvalid)
		default:
			respondInternalError(c, err, "register admin")
		}
		return
	}

	ac.logAuth(c, admin.Username, audit.ActionRegister, true)
	redirectWithFlash(c, "/login", flash.Registered)
}

// LoginPage shows the login form. Authenticated admins go straight to the catalog.
func (ac *AccountsController) LoginPage(c *gin.Context) {
	if auth.IsAuthenticated(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}

	next := c.Query("next")
	if !auth.IsLocalPath(next) {
		next = ""
	}
	render(c, http.StatusOK, "login.html", gin.H{
		"Title": "Login",
		"Next":  next,
	})
}

func (ac *AccountsController) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	next := c.PostForm("next")
	ip := c.ClientIP()

	if ac.rateLimiter != nil {
		if allowed, _ := ac.rateLimiter.Allow(ip, username); !allowed {
			ac.logAuth(c, username, audit.ActionLoginFailed, false)
			c.Redirect(http.StatusFound, loginURL(flash.TooManyAttempts, next))
			return
		}
	}

	admin, err := ac.authService.Login(username, c.PostForm("password"))
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			respondInternalError(c, err, "login")
			return
		}

		code := flash.InvalidCredentials
		if ac.rateLimiter != nil {
			if locked, _ := ac.rateLimiter.RecordFailure(ip, username); locked {
				code = flash.TooManyAttempts
			}
		}
		ac.logAuth(c, username, audit.ActionLoginFailed, false)
		c.Redirect(http.StatusFound, loginURL(code, next))
		return
	}

	if ac.rateLimiter != nil {
		ac.rateLimiter.RecordSuccess(ip, username)
	}
	if err := ac.sessions.Login(c.Request, admin.Username); err != nil {
		respondInternalError(c, err, "start session")
		return
	}

	ac.logAuth(c, admin.Username, audit.ActionLogin, true)
	redirectWithFlash(c, auth.SanitizeRedirectPath(next), flash.LoginOK)
}

// Logout ends the admin session. Anonymous visitors are simply redirected.
func (ac *AccountsController) Logout(c *gin.Context) {
	username := ac.sessions.Username(c.Request)
	ac.sessions.Logout(c.Request)
	if username != "" {
		ac.logAuth(c, username, audit.ActionLogout, true)
	}
	redirectWithFlash(c, "/", flash.LoggedOut)
}

func (ac *AccountsController) logAuth(c *gin.Context, username, action string, success bool) {
	if ac.auditor == nil {
		return
	}
	ac.auditor.LogAuth(username, action, c.ClientIP(), c.Request.UserAgent(), success)
}

// loginURL points back at the login form, keeping a local "next" target.
func loginURL(code flash.Code, next string) string {
	query := url.Values{}
	query.Set(flash.QueryParam, string(code))
	if auth.IsLocalPath(next) && next != "/" {
		query.Set("next", next)
	}
	return auth.LoginPath + "?" + query.Encode()
}

func isRegistrationInputError(err error) bool {
	for _, target := range []error{
		auth.ErrUsernameRequired,
		auth.ErrUsernameInvalid,
		auth.ErrEmailRequired,
		auth.ErrEmailInvalid,
		auth.ErrPasswordRequired,
		auth.ErrPasswordTooShort,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
