package models

import (
	"time"
)

// EngagementRecord is one published post's engagement snapshot pulled
// from the CMS. Missing metrics are stored as zero.
type EngagementRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Clicks    int       `json:"clicks"`
	Shares    int       `json:"shares"`
	Views     int       `json:"views"`
	FetchedAt time.Time `gorm:"autoCreateTime" json:"fetched_at"`
}
