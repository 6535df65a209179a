package demo

import (
	"fmt"

	"github.com/mrlokans/bookstore/internal/auth"
	"github.com/mrlokans/bookstore/internal/catalog"
)

// Credentials of the account created for demo visitors.
const (
	Username = "demo"
	Password = "demo-password"
	Email    = "demo@example.com"
)

// seedActor is recorded in the audit log for seeded books.
const seedActor = "demo-seed"

var sampleBooks = []catalog.BookInput{
	{Name: "Clean Code", Price: "35.50", Stock: "4"},
	{Name: "The Pragmatic Programmer", Price: "42.00", Stock: "7"},
	{Name: "Refactoring", Price: "39.99", Stock: "3"},
	{Name: "Design Patterns", Price: "54.25", Stock: "2"},
	{Name: "The Go Programming Language", Price: "37.80", Stock: "10"},
	{Name: "Structure and Interpretation of Computer Programs", Price: "48.00", Stock: "1"},
	{Name: "Introduction to Algorithms", Price: "89.90", Stock: "5"},
	{Name: "Code Complete", Price: "44.10", Stock: "6"},
	{Name: "Working Effectively with Legacy Code", Price: "41.30", Stock: "0"},
	{Name: "Domain-Driven Design", Price: "52.00", Stock: "2"},
	{Name: "Designing Data-Intensive Applications", Price: "46.75", Stock: "8"},
	{Name: "Site Reliability Engineering", Price: "0", Stock: "12"},
}

// SeedCatalog fills an empty catalog with sample books.
// It returns the number of books added; a non-empty catalog is left untouched.
func SeedCatalog(books *catalog.Service) (int, error) {
	page, err := books.List(1, "")
	if err != nil {
		return 0, fmt.Errorf("failed to inspect catalog: %w", err)
	}
	if page.Total > 0 {
		return 0, nil
	}

	for i, in := range sampleBooks {
		if _, err := books.Create(seedActor, in); err != nil {
			return i, fmt.Errorf("failed to seed %q: %w", in.Name, err)
		}
	}
	return len(sampleBooks), nil
}

// SeedAdmin registers the demo account unless any admin already exists.
func SeedAdmin(authService *auth.Service) (bool, error) {
	hasAdmins, err := authService.HasAdmins()
	if err != nil {
		return false, err
	}
	if hasAdmins {
		return false, nil
	}

	if _, err := authService.Register(Username, Password, Email); err != nil {
		return false, fmt.Errorf("failed to create demo admin: %w", err)
	}
	return true, nil
}
