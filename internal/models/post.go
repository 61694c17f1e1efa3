package models

import (
	"time"
)

// PostStatus represents the publication state requested from the CMS
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
)

// Post is the payload submitted to the publishing backend. Ownership
// transfers to the CMS once submitted; it is not persisted locally.
type Post struct {
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Status       PostStatus `json:"status"`
	PublishAt    *time.Time `json:"publish_at,omitempty"` // Absolute UTC instant, nil for drafts
	Excerpt      string     `json:"excerpt"`
	Tags         []string   `json:"tags"`
	FeatureImage string     `json:"feature_image"`
}
