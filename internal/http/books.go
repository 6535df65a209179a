package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/auth"
	"github.com/mrlokans/bookstore/internal/catalog"
	"github.com/mrlokans/bookstore/internal/flash"
)

// Form field names of the book forms.
const (
	formFieldName  = "nama"
	formFieldPrice = "harga"
	formFieldStock = "stok"
)

// BooksController serves the catalog listing and the admin book forms.
type BooksController struct {
	catalog *catalog.Service
}

func NewBooksController(catalogService *catalog.Service) *BooksController {
	return &BooksController{catalog: catalogService}
}

// Index lists one page of books, optionally filtered by ?search=.
func (bc *BooksController) Index(c *gin.Context) {
	page, err := bc.catalog.List(parsePageQuery(c), c.Query("search"))
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	render(c, http.StatusOK, "index.html", gin.H{
		"Title": "Books",
		"Page":  page,
	})
}

func (bc *BooksController) AddBookPage(c *gin.Context) {
	render(c, http.StatusOK, "add_book.html", gin.H{"Title": "Add book"})
}

func (bc *BooksController) AddBook(c *gin.Context) {
	_, err := bc.catalog.Create(auth.GetUsername(c), bookInputFromForm(c))
	if err != nil {
		var vErr *catalog.ValidationError
		if errors.As(err, &vErr) {
			redirectWithFlash(c, "/add_book", validationFlash(vErr))
			return
		}
		respondInternalError(c, err, "create book")
		return
	}

	redirectWithFlash(c, "/", flash.BookAdded)
}

func (bc *BooksController) EditBookPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.catalog.Get(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondNotFound(c)
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	render(c, http.StatusOK, "edit_book.html", gin.H{
		"Title": "Edit book",
		"Book":  book,
	})
}

func (bc *BooksController) EditBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := bc.catalog.Update(auth.GetUsername(c), id, bookInputFromForm(c))
	if err != nil {
		var vErr *catalog.ValidationError
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			respondNotFound(c)
		case errors.As(err, &vErr):
			redirectWithFlash(c, fmt.Sprintf("/edit_book/%d", id), validationFlash(vErr))
		default:
			respondInternalError(c, err, "update book")
		}
		return
	}

	redirectWithFlash(c, "/", flash.BookUpdated)
}

func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.catalog.Delete(auth.GetUsername(c), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondNotFound(c)
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}

	redirectWithFlash(c, "/", flash.BookDeleted)
}

func bookInputFromForm(c *gin.Context) catalog.BookInput {
	return catalog.BookInput{
		Name:  c.PostForm(formFieldName),
		Price: c.PostForm(formFieldPrice),
		Stock: c.PostForm(formFieldStock),
	}
}

// validationFlash maps the offending field to its flash code.
func validationFlash(err *catalog.ValidationError) flash.Code {
	switch err.Field {
	case catalog.FieldPrice:
		return flash.InvalidPrice
	case catalog.FieldStock:
		return flash.InvalidStock
	default:
		return flash.InvalidName
	}
}
