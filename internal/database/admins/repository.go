// Package admins provides database operations for admin accounts.
//
// # Usage
//
//	repo := admins.NewRepository(db)
//	admin, err := repo.FindByUsername("alice")
package admins

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/bookstore/internal/auth"
	"github.com/mrlokans/bookstore/internal/entities"
)

// Repository handles all admin database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new admins repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new admin. A unique-constraint violation on username or
// email is reported as auth.ErrUserExists.
func (r *Repository) Create(admin *entities.Admin) error {
	err := r.db.Create(admin).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return auth.ErrUserExists
	}
	return err
}

// FindByUsername retrieves an admin by exact username.
func (r *Repository) FindByUsername(username string) (*entities.Admin, error) {
	var admin entities.Admin
	err := r.db.Where("username = ?", username).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// UsernameExists reports whether the username is already registered.
func (r *Repository) UsernameExists(username string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Admin{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// EmailExists reports whether the email is already registered (case-insensitive).
func (r *Repository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Admin{}).Where("LOWER(email) = LOWER(?)", email).Count(&count).Error
	return count > 0, err
}

// UpdatePassword replaces the stored password hash.
func (r *Repository) UpdatePassword(id uint, passwordHash string) error {
	result := r.db.Model(&entities.Admin{}).Where("id = ?", id).Update("password", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return auth.ErrAdminNotFound
	}
	return nil
}

// Count returns the number of admin accounts.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Admin{}).Count(&count).Error
	return count, err
}
