package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DraftStatus represents the current state of a draft awaiting review
type DraftStatus string

const (
	DraftStatusPending  DraftStatus = "pending"
	DraftStatusApproved DraftStatus = "approved"
	DraftStatusRejected DraftStatus = "rejected"
)

// Draft represents a generated article routed to manual review.
// Drafts are identity-addressed so approve/reject stay safe and
// idempotent under concurrent access.
type Draft struct {
	ID           string      `gorm:"primaryKey" json:"id"`
	Title        string      `gorm:"not null" json:"title"`
	Content      string      `gorm:"type:text;not null" json:"content"`
	QualityScore int         `json:"quality_score"`
	Status       DraftStatus `gorm:"default:'pending'" json:"status"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns a UUID when none was provided
func (d *Draft) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
