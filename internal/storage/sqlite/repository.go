package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/blog-agent/internal/models"
	"github.com/blog-agent/internal/storage"
)

// Repository implements storage.Repository using SQLite
type Repository struct {
	db *gorm.DB
}

// New creates a new SQLite repository
func New(dsn string) (*Repository, error) {
	// Ensure directory exists
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Repository{db: db}, nil
}

// Migrate runs database migrations
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(
		&models.Draft{},
		&models.UsedTopic{},
		&models.EngagementRecord{},
		&models.StateEntry{},
	)
}

// Close closes the database connection
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Draft operations

func (r *Repository) CreateDraft(ctx context.Context, draft *models.Draft) error {
	return r.db.WithContext(ctx).Create(draft).Error
}

func (r *Repository) GetDraftByID(ctx context.Context, id string) (*models.Draft, error) {
	var draft models.Draft
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&draft).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &draft, nil
}

func (r *Repository) ListDrafts(ctx context.Context, filter storage.DraftFilter) ([]*models.Draft, error) {
	var drafts []*models.Draft
	query := r.db.WithContext(ctx).Model(&models.Draft{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if filter.OrderDesc {
		query = query.Order("created_at DESC")
	} else {
		query = query.Order("created_at ASC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	if err := query.Find(&drafts).Error; err != nil {
		return nil, err
	}
	return drafts, nil
}

func (r *Repository) DeleteDraft(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Draft{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Used-topic operations

func (r *Repository) AppendUsedTopic(ctx context.Context, topic string) error {
	return r.db.WithContext(ctx).Create(&models.UsedTopic{Topic: topic}).Error
}

func (r *Repository) ListUsedTopics(ctx context.Context) ([]*models.UsedTopic, error) {
	var topics []*models.UsedTopic
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

// TrimUsedTopics deletes the oldest rows so at most keep rows remain.
func (r *Repository) TrimUsedTopics(ctx context.Context, keep int) error {
	if keep < 0 {
		keep = 0
	}
	var cutoff models.UsedTopic
	err := r.db.WithContext(ctx).
		Model(&models.UsedTopic{}).
		Order("id DESC").
		Offset(keep).
		First(&cutoff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // Nothing to trim
		}
		return err
	}
	return r.db.WithContext(ctx).Where("id <= ?", cutoff.ID).Delete(&models.UsedTopic{}).Error
}

func (r *Repository) ResetUsedTopics(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.UsedTopic{}).Error
}

// Engagement operations

// ReplaceEngagement swaps the stored engagement snapshot atomically.
func (r *Repository) ReplaceEngagement(ctx context.Context, records []*models.EngagementRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.EngagementRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
}

func (r *Repository) ListEngagement(ctx context.Context) ([]*models.EngagementRecord, error) {
	var records []*models.EngagementRecord
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Keyed state operations

func (r *Repository) GetState(ctx context.Context, key string) (string, error) {
	var entry models.StateEntry
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", storage.ErrNotFound
		}
		return "", err
	}
	return entry.Value, nil
}

func (r *Repository) SetState(ctx context.Context, key, value string) error {
	entry := models.StateEntry{Key: key, Value: value}
	return r.db.WithContext(ctx).Save(&entry).Error
}
