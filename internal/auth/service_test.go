package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/entities"
)

type mockAdminRepository struct {
	admins    []*entities.Admin
	createErr error
	findErr   error
	updates   int
}

func (m *mockAdminRepository) Create(admin *entities.Admin) error {
	if m.createErr != nil {
		return m.createErr
	}
	admin.ID = uint(len(m.admins) + 1)
	stored := *admin
	m.admins = append(m.admins, &stored)
	return nil
}

func (m *mockAdminRepository) FindByUsername(username string) (*entities.Admin, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, a := range m.admins {
		if a.Username == username {
			found := *a
			return &found, nil
		}
	}
	return nil, ErrAdminNotFound
}

func (m *mockAdminRepository) UsernameExists(username string) (bool, error) {
	for _, a := range m.admins {
		if a.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAdminRepository) EmailExists(email string) (bool, error) {
	for _, a := range m.admins {
		if strings.EqualFold(a.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAdminRepository) UpdatePassword(id uint, passwordHash string) error {
	for _, a := range m.admins {
		if a.ID == id {
			a.PasswordHash = passwordHash
			m.updates++
			return nil
		}
	}
	return ErrAdminNotFound
}

func (m *mockAdminRepository) Count() (int64, error) {
	return int64(len(m.admins)), nil
}

func testAuthConfig() config.Auth {
	return config.Auth{PBKDF2Iterations: testIterations, MinPasswordLength: 8}
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		email    string
		wantErr  error
	}{
		{"valid admin", "alice", "password123", "alice@example.com", nil},
		{"missing username", "  ", "password123", "alice@example.com", ErrUsernameRequired},
		{"missing password", "alice", "", "alice@example.com", ErrPasswordRequired},
		{"missing email", "alice", "password123", "", ErrEmailRequired},
		{"invalid email", "alice", "password123", "not-an-email", ErrEmailInvalid},
		{"short password", "alice", "short", "alice@example.com", ErrPasswordTooShort},
		{"long username", strings.Repeat("a", 65), "password123", "alice@example.com", ErrUsernameInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAdminRepository{}
			svc := NewService(repo, testAuthConfig())

			admin, err := svc.Register(tt.username, tt.password, tt.email)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.admins)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, admin.ID)
			assert.Equal(t, tt.username, admin.Username)
			assert.Equal(t, tt.email, admin.Email)
			assert.True(t, strings.HasPrefix(admin.PasswordHash, "pbkdf2:sha256:"))
			assert.NotContains(t, admin.PasswordHash, tt.password)
		})
	}
}

func TestService_Register_DuplicateUsername(t *testing.T) {
	repo := &mockAdminRepository{}
	svc := NewService(repo, testAuthConfig())

	_, err := svc.Register("alice", "password123", "alice@example.com")
	require.NoError(t, err)

	_, err = svc.Register("alice", "different123", "other@example.com")

	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.ErrorIs(t, err, ErrUserExists)
	assert.Len(t, repo.admins, 1)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	repo := &mockAdminRepository{}
	svc := NewService(repo, testAuthConfig())

	_, err := svc.Register("alice", "password123", "shared@example.com")
	require.NoError(t, err)

	_, err = svc.Register("bob", "password123", "shared@example.com")

	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.ErrorIs(t, err, ErrUserExists)
	assert.Len(t, repo.admins, 1)
}

func TestService_Register_InsertRace(t *testing.T) {
	repo := &mockAdminRepository{createErr: ErrUserExists}
	svc := NewService(repo, testAuthConfig())

	_, err := svc.Register("alice", "password123", "alice@example.com")

	assert.ErrorIs(t, err, ErrUserExists)
}

func TestService_Login(t *testing.T) {
	repo := &mockAdminRepository{}
	svc := NewService(repo, testAuthConfig())
	_, err := svc.Register("alice", "password123", "alice@example.com")
	require.NoError(t, err)

	admin, err := svc.Login("alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", admin.Username)

	_, wrongPassword := svc.Login("alice", "password124")
	_, unknownUser := svc.Login("mallory", "password123")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error(), "failures must be indistinguishable")
}

func TestService_Login_RepositoryError(t *testing.T) {
	repo := &mockAdminRepository{findErr: errors.New("database is locked")}
	svc := NewService(repo, testAuthConfig())

	_, err := svc.Login("alice", "password123")

	assert.ErrorContains(t, err, "database is locked")
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UpgradesBcryptHash(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockAdminRepository{}
	require.NoError(t, repo.Create(&entities.Admin{Username: "old", Email: "old@example.com", PasswordHash: string(legacy)}))
	svc := NewService(repo, testAuthConfig())

	admin, err := svc.Login("old", "legacy-pass")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.updates)
	assert.True(t, strings.HasPrefix(admin.PasswordHash, "pbkdf2:sha256:1000$"))
	assert.Equal(t, admin.PasswordHash, repo.admins[0].PasswordHash)

	// The upgraded hash keeps working
	_, err = svc.Login("old", "legacy-pass")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.updates)
}

func TestService_Login_UpgradesWeakIterations(t *testing.T) {
	weak, err := HashPassword("password123", 100)
	require.NoError(t, err)
	repo := &mockAdminRepository{}
	require.NoError(t, repo.Create(&entities.Admin{Username: "alice", Email: "a@example.com", PasswordHash: weak}))
	svc := NewService(repo, testAuthConfig())

	_, err = svc.Login("alice", "password123")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.updates)
	assert.False(t, NeedsRehash(repo.admins[0].PasswordHash, testIterations))
}

func TestService_HasAdmins(t *testing.T) {
	repo := &mockAdminRepository{}
	svc := NewService(repo, testAuthConfig())

	has, err := svc.HasAdmins()
	require.NoError(t, err)
	assert.False(t, has)

	_, err = svc.Register("alice", "password123", "alice@example.com")
	require.NoError(t, err)

	has, err = svc.HasAdmins()
	require.NoError(t, err)
	assert.True(t, has)
}

func TestService_DefaultsForZeroConfig(t *testing.T) {
	svc := NewService(&mockAdminRepository{}, config.Auth{})

	assert.Equal(t, DefaultIterations, svc.iterations())
	assert.Equal(t, DefaultMinPasswordLength, svc.minPasswordLength())
}
