package storage

import (
	"context"
	"errors"

	"github.com/blog-agent/internal/models"
)

// ErrNotFound is returned when a record does not exist. Approve/reject on
// a stale draft ID must surface this rather than corrupt the collection.
var ErrNotFound = errors.New("record not found")

// Repository defines the interface for data persistence
type Repository interface {
	// Draft operations
	CreateDraft(ctx context.Context, draft *models.Draft) error
	GetDraftByID(ctx context.Context, id string) (*models.Draft, error)
	ListDrafts(ctx context.Context, filter DraftFilter) ([]*models.Draft, error)
	DeleteDraft(ctx context.Context, id string) error

	// Used-topic operations
	AppendUsedTopic(ctx context.Context, topic string) error
	ListUsedTopics(ctx context.Context) ([]*models.UsedTopic, error)
	TrimUsedTopics(ctx context.Context, keep int) error
	ResetUsedTopics(ctx context.Context) error

	// Engagement operations
	ReplaceEngagement(ctx context.Context, records []*models.EngagementRecord) error
	ListEngagement(ctx context.Context) ([]*models.EngagementRecord, error)

	// Keyed state operations
	GetState(ctx context.Context, key string) (string, error)
	SetState(ctx context.Context, key, value string) error

	// Maintenance
	Close() error
	Migrate() error
}

// DraftFilter defines filtering options for drafts
type DraftFilter struct {
	Status    *models.DraftStatus
	Limit     int
	Offset    int
	OrderDesc bool
}

// DefaultDraftFilter returns a filter with sensible defaults
func DefaultDraftFilter() DraftFilter {
	return DraftFilter{
		Limit: 50,
	}
}
