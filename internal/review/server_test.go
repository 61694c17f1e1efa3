package review

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/blog-agent/internal/agent/publisher"
	"github.com/blog-agent/internal/config"
	"github.com/blog-agent/internal/models"
	"github.com/blog-agent/internal/storage"
	"github.com/blog-agent/pkg/logger"
)

type fakeCoordinator struct {
	approved []string
	rejected []string
	err      error
}

func (c *fakeCoordinator) Approve(ctx context.Context, draftID string) (*publisher.PublishResult, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.approved = append(c.approved, draftID)
	at := time.Date(2026, 9, 3, 9, 0, 0, 0, time.UTC)
	return &publisher.PublishResult{PostID: "post-1", DraftID: draftID, Published: true, PublishAt: &at}, nil
}

func (c *fakeCoordinator) Reject(ctx context.Context, draftID string) error {
	if c.err != nil {
		return c.err
	}
	c.rejected = append(c.rejected, draftID)
	return nil
}

type fakeRepo struct {
	drafts []*models.Draft
	err    error
}

func (r *fakeRepo) CreateDraft(ctx context.Context, draft *models.Draft) error { return nil }
func (r *fakeRepo) GetDraftByID(ctx context.Context, id string) (*models.Draft, error) {
	return nil, storage.ErrNotFound
}
func (r *fakeRepo) ListDrafts(ctx context.Context, filter storage.DraftFilter) ([]*models.Draft, error) {
	return r.drafts, r.err
}
func (r *fakeRepo) DeleteDraft(ctx context.Context, id string) error        { return nil }
func (r *fakeRepo) AppendUsedTopic(ctx context.Context, topic string) error { return nil }
func (r *fakeRepo) ListUsedTopics(ctx context.Context) ([]*models.UsedTopic, error) {
	return nil, nil
}
func (r *fakeRepo) TrimUsedTopics(ctx context.Context, keep int) error { return nil }
func (r *fakeRepo) ResetUsedTopics(ctx context.Context) error          { return nil }
func (r *fakeRepo) ReplaceEngagement(ctx context.Context, records []*models.EngagementRecord) error {
	return nil
}
func (r *fakeRepo) ListEngagement(ctx context.Context) ([]*models.EngagementRecord, error) {
	return nil, nil
}
func (r *fakeRepo) GetState(ctx context.Context, key string) (string, error) {
	return "", storage.ErrNotFound
}
func (r *fakeRepo) SetState(ctx context.Context, key, value string) error { return nil }
func (r *fakeRepo) Close() error                                          { return nil }
func (r *fakeRepo) Migrate() error                                        { return nil }

func testServer(coord *fakeCoordinator, repo *fakeRepo) *httptest.Server {
	log := logger.New(logger.Config{Level: "disabled"})
	s := NewServer(coord, repo, config.ReviewConfig{Addr: ":0"}, log)
	return httptest.NewServer(s.Router())
}

func TestHealthEndpoint(t *testing.T) {
	ts := testServer(&fakeCoordinator{}, &fakeRepo{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListDrafts(t *testing.T) {
	repo := &fakeRepo{drafts: []*models.Draft{
		{ID: "d1", Title: "Pending One", QualityScore: 60, Status: models.DraftStatusPending},
		{ID: "d2", Title: "Pending Two", QualityScore: 72, Status: models.DraftStatusPending},
	}}
	ts := testServer(&fakeCoordinator{}, repo)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/drafts")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Drafts []models.Draft `json:"drafts"`
		Count  int            `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, 2, body.Count)
	require.Equal(t, "d1", body.Drafts[0].ID)
}

func TestApproveDraft(t *testing.T) {
	coord := &fakeCoordinator{}
	ts := testServer(coord, &fakeRepo{})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/drafts/d1/approve", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"d1"}, coord.approved)

	var body struct {
		PostID string `json:"post_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "post-1", body.PostID)
}

func TestApproveStaleDraftNotFound(t *testing.T) {
	coord := &fakeCoordinator{err: fmt.Errorf("draft x: %w", storage.ErrNotFound)}
	ts := testServer(coord, &fakeRepo{})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/drafts/stale/approve", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body["error"])
}

func TestRejectDraft(t *testing.T) {
	coord := &fakeCoordinator{}
	ts := testServer(coord, &fakeRepo{})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/drafts/d2/reject", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"d2"}, coord.rejected)
}

func TestRejectStaleDraftNotFound(t *testing.T) {
	coord := &fakeCoordinator{err: fmt.Errorf("draft x: %w", storage.ErrNotFound)}
	ts := testServer(coord, &fakeRepo{})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/drafts/stale/reject", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
