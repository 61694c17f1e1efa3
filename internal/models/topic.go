package models

import (
	"time"
)

// UsedTopic records a topic picked by the ledger. Rows are ordered by ID;
// the ledger evicts the oldest rows once the retention bound is exceeded.
type UsedTopic struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	Topic  string    `gorm:"not null" json:"topic"`
	UsedAt time.Time `gorm:"autoCreateTime" json:"used_at"`
}
