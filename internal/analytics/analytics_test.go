package analytics

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blog-agent/internal/ghost"
	"github.com/blog-agent/internal/models"
	"github.com/blog-agent/pkg/logger"
)

type fakeFetcher struct {
	posts []ghost.PublishedPost
	err   error
}

func (f *fakeFetcher) FetchPublished(ctx context.Context, limit int) ([]ghost.PublishedPost, error) {
	return f.posts, f.err
}

type fakeStore struct {
	records []*models.EngagementRecord
	state   map[string]string
}

func (s *fakeStore) ReplaceEngagement(ctx context.Context, records []*models.EngagementRecord) error {
	s.records = records
	return nil
}

func (s *fakeStore) ListEngagement(ctx context.Context) ([]*models.EngagementRecord, error) {
	return s.records, nil
}

func (s *fakeStore) SetState(ctx context.Context, key, value string) error {
	if s.state == nil {
		s.state = map[string]string{}
	}
	s.state[key] = value
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "disabled"})
}

func TestRefreshStoresNormalizedSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{posts: []ghost.PublishedPost{
		{Title: "First Post", Clicks: 12, Shares: 3, Views: 200},
		{Title: "Second Post"}, // no metrics reported
	}}
	store := &fakeStore{}
	c := NewCollector(fetcher, store, testLogger())

	records, err := c.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Len(t, store.records, 2)

	require.Equal(t, 12, store.records[0].Clicks)
	require.False(t, store.records[0].FetchedAt.IsZero())

	// Missing metrics normalize to zero, never negative or absent
	require.Zero(t, store.records[1].Clicks)
	require.Zero(t, store.records[1].Shares)
	require.Zero(t, store.records[1].Views)
}

func TestRefreshPropagatesFetchError(t *testing.T) {
	c := NewCollector(&fakeFetcher{err: fmt.Errorf("api down")}, &fakeStore{}, testLogger())

	_, err := c.Refresh(context.Background())
	require.Error(t, err)
}

func TestAnalyzeABRecordsWinner(t *testing.T) {
	store := &fakeStore{records: []*models.EngagementRecord{
		{Title: "Quiet Post", Clicks: 3},
		{Title: "Popular Post", Clicks: 42},
		{Title: "Average Post", Clicks: 17},
	}}
	c := NewCollector(&fakeFetcher{}, store, testLogger())

	winner, err := c.AnalyzeAB(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Popular Post", winner)
	require.Equal(t, "Popular Post", store.state[models.StateKeyABWinner])
}

func TestAnalyzeABNoData(t *testing.T) {
	c := NewCollector(&fakeFetcher{}, &fakeStore{}, testLogger())

	_, err := c.AnalyzeAB(context.Background())
	require.Error(t, err)
}
