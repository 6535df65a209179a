// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── books/           # Book catalog storage (implements catalog.Repository)
//	├── admins/          # Admin accounts (implements auth.AdminRepository)
//	└── audit/           # Audit trail of catalog and login events
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./bookstore.db", false)
//
//	booksRepo := books.NewRepository(db.DB)
//	adminsRepo := admins.NewRepository(db.DB)
//
// Each repository carries a compile-time interface check in internal/interfaces.
package database
