package entities

import "time"

// Admin is an operator account allowed to change the catalog.
type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:255;not null" json:"username"`
	PasswordHash string    `gorm:"column:password;size:255;not null" json:"-"` // salted hash, never plaintext
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Admin) TableName() string {
	return "admins"
}
