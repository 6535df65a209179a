// Package books provides database operations for the book catalog.
//
// # Interface Implementation
//
//	var _ catalog.Repository = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	items, total, err := repo.Search("clean", 1, catalog.PageSize)
package books

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/bookstore/internal/catalog"
	"github.com/mrlokans/bookstore/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Find retrieves a book by its ID.
func (r *Repository) Find(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// Save inserts a new book (ID == 0) or overwrites name, price and stock of an existing one.
func (r *Repository) Save(book *entities.Book) error {
	if book.ID == 0 {
		return r.db.Create(book).Error
	}

	result := r.db.Model(book).Select("name", "price", "stock").Updates(book)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// Delete permanently removes a book.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// Search returns one page of books whose name contains query (case-insensitive),
// ordered by id, together with the total number of matches.
func (r *Repository) Search(query string, page, pageSize int) ([]entities.Book, int64, error) {
	var books []entities.Book
	var total int64

	q := r.db.Model(&entities.Book{})
	if query != "" {
		// Both sides go through the same Unicode fold registered on the driver
		pattern := "%" + escapeLike(query) + "%"
		q = q.Where(`unicode_lower(name) LIKE unicode_lower(?) ESCAPE '\'`, pattern)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	// Checked on page numbers: (page-1)*pageSize overflows for huge pages
	lastPage := (total + int64(pageSize) - 1) / int64(pageSize)
	if int64(page-1) >= lastPage {
		return []entities.Book{}, total, nil
	}
	offset := (page - 1) * pageSize

	err := q.Order("id ASC").Limit(pageSize).Offset(offset).Find(&books).Error
	return books, total, err
}

// CountBooks returns the number of books in the catalog.
func (r *Repository) CountBooks() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
