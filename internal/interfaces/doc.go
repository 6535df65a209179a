// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - catalog.Repository: book storage and search (internal/catalog/service.go),
//     implemented by internal/database/books
//   - auth.AdminRepository: admin accounts (internal/auth/service.go),
//     implemented by internal/database/admins
//
// ## Change Tracking Interfaces
//
//   - catalog.Recorder: notified after catalog changes, implemented by the
//     audit service
//   - tasks.AuditEventCleaner: prunes old audit events for the cleanup queue
//
// ## Background Work Interfaces
//
//   - scheduler.Enqueuer: hands tasks to the backlite queue (tasks.Client)
//
// # Adding a New Database Domain
//
// To add a new data domain (e.g., suppliers):
//
//  1. Create sub-package: internal/database/suppliers/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Define the interface next to the service that consumes it and
//     implement its methods
//
//  4. Add compile-time check to checks.go:
//
//     var _ suppliers.Store = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the current list.
package interfaces
