package predictor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blog-agent/internal/models"
	"github.com/blog-agent/internal/storage"
	"github.com/blog-agent/pkg/logger"
)

type fakeStore struct {
	records []*models.EngagementRecord
	state   map[string]string
}

func (s *fakeStore) ListEngagement(ctx context.Context) ([]*models.EngagementRecord, error) {
	return s.records, nil
}

func (s *fakeStore) GetState(ctx context.Context, key string) (string, error) {
	v, ok := s.state[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
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

func TestTrainFitsAndPersists(t *testing.T) {
	// Clicks grow with title length: y = 2x exactly
	store := &fakeStore{records: []*models.EngagementRecord{
		{Title: "ab", Clicks: 4},
		{Title: "abcd", Clicks: 8},
		{Title: "abcdefgh", Clicks: 16},
	}}
	p := New(store, testLogger())

	model, err := p.Train(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, model.Samples)
	require.InDelta(t, 2.0, model.Slope, 1e-9)
	require.InDelta(t, 0.0, model.Intercept, 1e-9)
	require.NotEmpty(t, store.state[models.StateKeyPredictorModel])
}

func TestTrainDegeneratesToMean(t *testing.T) {
	// No length variance: slope undefined, falls back to the mean
	store := &fakeStore{records: []*models.EngagementRecord{
		{Title: "aaaa", Clicks: 10},
		{Title: "bbbb", Clicks: 20},
	}}
	p := New(store, testLogger())

	model, err := p.Train(context.Background())
	require.NoError(t, err)
	require.Zero(t, model.Slope)
	require.InDelta(t, 15.0, model.Intercept, 1e-9)
}

func TestTrainNoData(t *testing.T) {
	p := New(&fakeStore{}, testLogger())

	_, err := p.Train(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestBestTitlePicksHighestPrediction(t *testing.T) {
	store := &fakeStore{records: []*models.EngagementRecord{
		{Title: "short", Clicks: 5},
		{Title: "a considerably longer title", Clicks: 30},
		{Title: "medium title", Clicks: 12},
	}}
	p := New(store, testLogger())

	_, err := p.Train(context.Background())
	require.NoError(t, err)

	// Positive slope means the longest title predicts the most clicks
	best, err := p.BestTitle(context.Background())
	require.NoError(t, err)
	require.Equal(t, "a considerably longer title", best)
}

func TestBestTitleWithoutModel(t *testing.T) {
	p := New(&fakeStore{}, testLogger())

	_, err := p.BestTitle(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestModelPredict(t *testing.T) {
	m := Model{Slope: 2, Intercept: 1}

	require.InDelta(t, 21.0, m.Predict(10), 1e-9)
	require.InDelta(t, 1.0, m.Predict(0), 1e-9)
}
