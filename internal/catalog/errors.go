package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("book not found")
	ErrValidation = errors.New("invalid book")
)

// Field names reported by ValidationError.
const (
	FieldName  = "name"
	FieldPrice = "price"
	FieldStock = "stock"
)

// ValidationError reports a malformed book field. It matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
