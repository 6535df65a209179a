// Package catalog implements listing, searching and editing of the book inventory.
//
// The service depends only on the Repository interface; internal/database/books
// provides the gorm implementation.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mrlokans/bookstore/internal/entities"
)

const maxNameLength = 255

// Repository is the storage contract for books.
// Find and Delete return an error matching ErrNotFound for unknown ids.
type Repository interface {
	Find(id uint) (*entities.Book, error)
	Save(book *entities.Book) error
	Delete(id uint) error
	Search(query string, page, pageSize int) ([]entities.Book, int64, error)
}

// Recorder is notified after each successful catalog change.
type Recorder interface {
	BookCreated(actor string, book *entities.Book)
	BookUpdated(actor string, book *entities.Book)
	BookDeleted(actor string, book *entities.Book)
}

// BookInput holds raw form values for a book.
type BookInput struct {
	Name  string
	Price string
	Stock string
}

type Service struct {
	repo     Repository
	recorder Recorder
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SetRecorder attaches an optional change recorder (e.g. the audit service).
func (s *Service) SetRecorder(recorder Recorder) {
	s.recorder = recorder
}

// List returns the requested page of books whose name contains search,
// ignoring case. Pages below 1 are treated as 1; pages past the end are empty.
func (s *Service) List(page int, search string) (*Page, error) {
	if page < 1 {
		page = 1
	}

	items, total, err := s.repo.Search(search, page, PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	if items == nil {
		items = []entities.Book{}
	}

	return newPage(items, page, PageSize, total, search), nil
}

func (s *Service) Get(id uint) (*entities.Book, error) {
	return s.repo.Find(id)
}

// Create validates the input, stores a new book and returns its id.
func (s *Service) Create(actor string, in BookInput) (uint, error) {
	book := &entities.Book{}
	if err := apply(book, in); err != nil {
		return 0, err
	}

	if err := s.repo.Save(book); err != nil {
		return 0, fmt.Errorf("failed to create book: %w", err)
	}

	if s.recorder != nil {
		s.recorder.BookCreated(actor, book)
	}
	return book.ID, nil
}

// Update overwrites name, price and stock of an existing book.
func (s *Service) Update(actor string, id uint, in BookInput) error {
	book, err := s.repo.Find(id)
	if err != nil {
		return err
	}

	if err := apply(book, in); err != nil {
		return err
	}

	if err := s.repo.Save(book); err != nil {
		return fmt.Errorf("failed to update book %d: %w", id, err)
	}

	if s.recorder != nil {
		s.recorder.BookUpdated(actor, book)
	}
	return nil
}

func (s *Service) Delete(actor string, id uint) error {
	book, err := s.repo.Find(id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete book %d: %w", id, err)
	}

	if s.recorder != nil {
		s.recorder.BookDeleted(actor, book)
	}
	return nil
}

// apply parses the raw input into book. The book is left untouched on error.
func apply(book *entities.Book, in BookInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return &ValidationError{Field: FieldName, Reason: "name is required"}
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return &ValidationError{Field: FieldName, Reason: "name exceeds 255 characters"}
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(in.Price), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return &ValidationError{Field: FieldPrice, Reason: "price must be a number"}
	}
	if price < 0 {
		return &ValidationError{Field: FieldPrice, Reason: "price must not be negative"}
	}

	stock, err := strconv.Atoi(strings.TrimSpace(in.Stock))
	if err != nil {
		return &ValidationError{Field: FieldStock, Reason: "stock must be a whole number"}
	}
	if stock < 0 {
		return &ValidationError{Field: FieldStock, Reason: "stock must not be negative"}
	}

	book.Name = name
	book.Price = price
	book.Stock = stock
	return nil
}
