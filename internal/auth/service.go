package auth

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"

	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/entities"
)

// DefaultMinPasswordLength is used when the configured minimum is not positive.
const DefaultMinPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrAdminNotFound      = errors.New("admin not found")
	ErrUserExists         = errors.New("user already exists")
	ErrUsernameTaken      = fmt.Errorf("username is already taken: %w", ErrUserExists)
	ErrEmailTaken         = fmt.Errorf("email is already registered: %w", ErrUserExists)
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameRequired   = errors.New("username is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrUsernameInvalid    = errors.New("username must be at most 64 characters")
	ErrEmailInvalid       = errors.New("invalid email format")
)

// AdminRepository defines the interface for admin data access.
type AdminRepository interface {
	Create(admin *entities.Admin) error // ErrUserExists on a unique-constraint violation
	FindByUsername(username string) (*entities.Admin, error)
	UsernameExists(username string) (bool, error)
	EmailExists(email string) (bool, error)
	UpdatePassword(id uint, passwordHash string) error
	Count() (int64, error)
}

// Service handles admin registration and credential checks.
type Service struct {
	repo   AdminRepository
	config config.Auth

	dummyOnce sync.Once
	dummyHash string
}

// NewService creates a new authentication service.
func NewService(repo AdminRepository, cfg config.Auth) *Service {
	return &Service{
		repo:   repo,
		config: cfg,
	}
}

func (s *Service) iterations() int {
	if s.config.PBKDF2Iterations > 0 {
		return s.config.PBKDF2Iterations
	}
	return DefaultIterations
}

func (s *Service) minPasswordLength() int {
	if s.config.MinPasswordLength > 0 {
		return s.config.MinPasswordLength
	}
	return DefaultMinPasswordLength
}

// Register creates a new admin account.
func (s *Service) Register(username, password, email string) (*entities.Admin, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(username) > 64 {
		return nil, ErrUsernameInvalid
	}

	// RFC 5321 limit is 254
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}
	if len(password) < s.minPasswordLength() {
		return nil, ErrPasswordTooShort
	}

	taken, err := s.repo.UsernameExists(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	taken, err = s.repo.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	passwordHash, err := HashPassword(password, s.iterations())
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &entities.Admin{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := s.repo.Create(admin); err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	return admin, nil
}

// Login verifies credentials and returns the matching admin.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(username, password string) (*entities.Admin, error) {
	admin, err := s.repo.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			// Keep the response time close to a real password check
			_ = CheckPassword(password, s.dummyPasswordHash())
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}

	if err := CheckPassword(password, admin.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		log.Printf("Password check failed for admin %q: %v", admin.Username, err)
		return nil, ErrInvalidCredentials
	}

	if NeedsRehash(admin.PasswordHash, s.iterations()) {
		s.upgradeHash(admin, password)
	}

	return admin, nil
}

// upgradeHash replaces a legacy or weaker hash after a successful login.
func (s *Service) upgradeHash(admin *entities.Admin, password string) {
	newHash, err := HashPassword(password, s.iterations())
	if err != nil {
		log.Printf("Failed to rehash password for admin %q: %v", admin.Username, err)
		return
	}
	if err := s.repo.UpdatePassword(admin.ID, newHash); err != nil {
		log.Printf("Failed to store upgraded password hash for admin %q: %v", admin.Username, err)
		return
	}
	admin.PasswordHash = newHash
}

func (s *Service) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		hash, err := HashPassword("dummy-password-for-timing", s.iterations())
		if err != nil {
			log.Printf("Failed to build dummy password hash: %v", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// HasAdmins reports whether at least one admin account exists.
func (s *Service) HasAdmins() (bool, error) {
	count, err := s.repo.Count()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
