package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/blog-agent/internal/ghost"
	"github.com/blog-agent/internal/models"
	"github.com/blog-agent/pkg/logger"
)

// defaultFetchLimit bounds how many published posts are pulled per refresh.
const defaultFetchLimit = 5

// Fetcher retrieves published posts with their engagement metadata.
type Fetcher interface {
	FetchPublished(ctx context.Context, limit int) ([]ghost.PublishedPost, error)
}

// Store persists normalized engagement snapshots and analysis results.
type Store interface {
	ReplaceEngagement(ctx context.Context, records []*models.EngagementRecord) error
	ListEngagement(ctx context.Context) ([]*models.EngagementRecord, error)
	SetState(ctx context.Context, key, value string) error
}

// Collector refreshes the local engagement snapshot from the CMS.
type Collector struct {
	fetcher Fetcher
	store   Store
	limit   int
	log     *logger.Logger
}

// NewCollector creates an engagement collector.
func NewCollector(fetcher Fetcher, store Store, log *logger.Logger) *Collector {
	return &Collector{
		fetcher: fetcher,
		store:   store,
		limit:   defaultFetchLimit,
		log:     log.WithComponent("analytics"),
	}
}

// Refresh pulls recent published posts and replaces the stored snapshot.
// Missing counters normalize to zero so downstream training always sees
// complete records.
func (c *Collector) Refresh(ctx context.Context) ([]*models.EngagementRecord, error) {
	posts, err := c.fetcher.FetchPublished(ctx, c.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch published posts: %w", err)
	}

	now := time.Now().UTC()
	records := make([]*models.EngagementRecord, 0, len(posts))
	for _, p := range posts {
		records = append(records, &models.EngagementRecord{
			Title:     p.Title,
			Clicks:    max(p.Clicks, 0),
			Shares:    max(p.Shares, 0),
			Views:     max(p.Views, 0),
			FetchedAt: now,
		})
	}

	if err := c.store.ReplaceEngagement(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to store engagement snapshot: %w", err)
	}

	c.log.Info().Int("records", len(records)).Msg("Engagement snapshot refreshed")

	return records, nil
}

// Snapshot returns the stored engagement records.
func (c *Collector) Snapshot(ctx context.Context) ([]*models.EngagementRecord, error) {
	return c.store.ListEngagement(ctx)
}

// AnalyzeAB picks the best-clicking title from the stored snapshot and
// records it as the A/B winner seed for title synthesis.
func (c *Collector) AnalyzeAB(ctx context.Context) (string, error) {
	records, err := c.store.ListEngagement(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load engagement snapshot: %w", err)
	}
	if len(records) == 0 {
		return "", fmt.Errorf("no engagement data to analyze")
	}

	winner := records[0]
	for _, r := range records[1:] {
		if r.Clicks > winner.Clicks {
			winner = r
		}
	}

	if err := c.store.SetState(ctx, models.StateKeyABWinner, winner.Title); err != nil {
		return "", fmt.Errorf("failed to record A/B winner: %w", err)
	}

	c.log.Info().
		Str("title", winner.Title).
		Int("clicks", winner.Clicks).
		Msg("A/B winner recorded")

	return winner.Title, nil
}
