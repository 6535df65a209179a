package audit

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mrlokans/bookstore/internal/database/audit"
	"github.com/mrlokans/bookstore/internal/entities"
)

// Audit actions.
const (
	ActionBookCreate  = "book_create"
	ActionBookUpdate  = "book_update"
	ActionBookDelete  = "book_delete"
	ActionRegister    = "register"
	ActionLogin       = "login"
	ActionLoginFailed = "login_failed"
	ActionLogout      = "logout"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event %s: %v", event.Action, err)
		}
	}()
}

// Wait blocks until every event queued with LogAsync has been written.
func (s *Service) Wait() {
	s.pending.Wait()
}

// BookCreated records a new catalog entry.
func (s *Service) BookCreated(actor string, book *entities.Book) {
	s.logBook(actor, ActionBookCreate, fmt.Sprintf("Added book %q (price %.2f, stock %d)", book.Name, book.Price, book.Stock), book)
}

// BookUpdated records a changed catalog entry.
func (s *Service) BookUpdated(actor string, book *entities.Book) {
	s.logBook(actor, ActionBookUpdate, fmt.Sprintf("Updated book %q (price %.2f, stock %d)", book.Name, book.Price, book.Stock), book)
}

// BookDeleted records a removed catalog entry.
func (s *Service) BookDeleted(actor string, book *entities.Book) {
	s.logBook(actor, ActionBookDelete, fmt.Sprintf("Deleted book %q", book.Name), book)
}

func (s *Service) logBook(actor, action, description string, book *entities.Book) {
	bookID := book.ID
	s.LogAsync(&entities.AuditEvent{
		AdminUsername: actor,
		EventType:     entities.AuditEventCatalog,
		Action:        action,
		Description:   truncate(description, 500),
		EntityType:    "book",
		EntityID:      &bookID,
		Status:        entities.AuditStatusSuccess,
	})
}

// LogAuth records an authentication event.
func (s *Service) LogAuth(username, action, ipAddr, userAgent string, success bool) {
	event := &entities.AuditEvent{
		AdminUsername: truncate(username, 255),
		EventType:     entities.AuditEventAuth,
		Action:        action,
		EntityType:    "admin",
		IPAddress:     ipAddr,
		UserAgent:     truncate(userAgent, 500),
		Status:        entities.AuditStatusSuccess,
	}

	if !success {
		event.Status = entities.AuditStatusFailed
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(filter audit.EventFilter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(filter, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// truncate shortens s to at most maxLen characters without splitting a rune.
// Invalid UTF-8 from request headers is replaced before storing.
func truncate(s string, maxLen int) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}
