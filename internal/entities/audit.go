package entities

import "time"

type AuditEventType string

const (
	AuditEventCatalog AuditEventType = "catalog"
	AuditEventAuth    AuditEventType = "auth"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

type AuditEvent struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	AdminUsername string         `gorm:"index;size:255" json:"admin_username"`
	EventType     AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action        string         `gorm:"size:100" json:"action"`      // e.g., "book_create", "login_failed"
	Description   string         `gorm:"size:500" json:"description"` // Human-readable summary
	EntityType    string         `gorm:"size:50" json:"entity_type"`  // "book", "admin"
	EntityID      *uint          `gorm:"index" json:"entity_id,omitempty"`
	IPAddress     string         `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent     string         `gorm:"size:500" json:"user_agent,omitempty"`
	Status        AuditStatus    `gorm:"size:20" json:"status"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
