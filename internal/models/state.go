package models

import (
	"time"
)

// Well-known state entry keys
const (
	StateKeyCandidateTitle = "candidate_title"
	StateKeyPredictorModel = "predictor_model"
	StateKeyABWinner       = "ab_winner"
)

// StateEntry is a durable keyed record for small pipeline state that is
// read fully and rewritten fully on each mutation.
type StateEntry struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
