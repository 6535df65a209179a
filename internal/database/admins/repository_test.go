package admins

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookstore/internal/auth"
	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "admins.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Admin{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewRepository(db)
}

func TestRepository_CreateAndFind(t *testing.T) {
	repo := setupTestDB(t)

	admin := &entities.Admin{Username: "alice", Email: "alice@example.com", PasswordHash: "pbkdf2:sha256:1$salt$00"}
	require.NoError(t, repo.Create(admin))
	assert.NotZero(t, admin.ID)

	found, err := repo.FindByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, found.ID)
	assert.Equal(t, "alice@example.com", found.Email)
	assert.Equal(t, admin.PasswordHash, found.PasswordHash)
}

func TestRepository_FindByUsername_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.FindByUsername("nobody")

	assert.ErrorIs(t, err, auth.ErrAdminNotFound)
}

func TestRepository_Create_UniqueViolation(t *testing.T) {
	repo := setupTestDB(t)
	require.NoError(t, repo.Create(&entities.Admin{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}))

	err := repo.Create(&entities.Admin{Username: "alice", Email: "other@example.com", PasswordHash: "y"})
	assert.ErrorIs(t, err, auth.ErrUserExists)

	err = repo.Create(&entities.Admin{Username: "bob", Email: "alice@example.com", PasswordHash: "y"})
	assert.ErrorIs(t, err, auth.ErrUserExists)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepository_Exists(t *testing.T) {
	repo := setupTestDB(t)
	require.NoError(t, repo.Create(&entities.Admin{Username: "alice", Email: "Alice@Example.com", PasswordHash: "x"}))

	exists, err := repo.UsernameExists("alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.UsernameExists("bob")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.EmailExists("alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRepository_UpdatePassword(t *testing.T) {
	repo := setupTestDB(t)
	admin := &entities.Admin{Username: "alice", Email: "alice@example.com", PasswordHash: "old"}
	require.NoError(t, repo.Create(admin))

	require.NoError(t, repo.UpdatePassword(admin.ID, "new"))

	found, err := repo.FindByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, "new", found.PasswordHash)

	assert.ErrorIs(t, repo.UpdatePassword(999, "x"), auth.ErrAdminNotFound)
}

// Registration through the service against the real store.
func TestRepository_WithAuthService(t *testing.T) {
	repo := setupTestDB(t)
	svc := auth.NewService(repo, config.Auth{PBKDF2Iterations: 1000, MinPasswordLength: 8})

	_, err := svc.Register("alice", "password123", "alice@example.com")
	require.NoError(t, err)

	_, err = svc.Register("alice", "password456", "new@example.com")
	assert.ErrorIs(t, err, auth.ErrUserExists)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "exactly one admin row")

	admin, err := svc.Login("alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", admin.Username)

	_, err = svc.Login("alice", "wrong-password")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
