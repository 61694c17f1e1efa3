package ghost

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/blog-agent/internal/config"
	"github.com/blog-agent/internal/models"
	"github.com/blog-agent/pkg/logger"
	"github.com/blog-agent/pkg/ratelimit"
)

func testClient(cfg config.GhostConfig) *Client {
	log := logger.New(logger.Config{Level: "disabled"})
	return NewClient(cfg, ratelimit.NewDefaultLimiter(), log)
}

func TestAdminTokenInvalidKeyFormat(t *testing.T) {
	c := testClient(config.GhostConfig{AdminAPIKey: "missing-separator"})

	_, err := c.adminToken()
	require.Error(t, err)
}

func TestAdminTokenInvalidSecret(t *testing.T) {
	c := testClient(config.GhostConfig{AdminAPIKey: "keyid:not-hex!"})

	_, err := c.adminToken()
	require.Error(t, err)
}

func TestAdminTokenWellFormed(t *testing.T) {
	c := testClient(config.GhostConfig{AdminAPIKey: "keyid:deadbeef"})

	token, err := c.adminToken()
	require.NoError(t, err)

	// header.payload.signature
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
}

func TestMobiledocWrapsHTMLCard(t *testing.T) {
	doc, err := mobiledoc("<h2>Hello</h2><p>World</p>")
	require.NoError(t, err)

	var parsed struct {
		Version string          `json:"version"`
		Cards   [][]interface{} `json:"cards"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	require.Equal(t, "0.3.1", parsed.Version)
	require.Len(t, parsed.Cards, 1)
	require.Equal(t, "html", parsed.Cards[0][0])

	payload, ok := parsed.Cards[0][1].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "<h2>Hello</h2><p>World</p>", payload["html"])
}

func TestSubmitPost(t *testing.T) {
	var received struct {
		Posts []map[string]interface{} `json:"posts"`
	}
	var gotAuth string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"posts":[{"id":"abc123"}]}`))
	}))
	defer ts.Close()

	c := testClient(config.GhostConfig{
		AdminAPIKey: "keyid:deadbeef",
		AdminAPIURL: ts.URL,
	})

	publishAt := time.Date(2026, 9, 3, 9, 0, 0, 0, time.UTC)
	id, err := c.SubmitPost(context.Background(), &models.Post{
		Title:     "Scheduled Post",
		Content:   "<p>body</p>",
		Status:    models.PostStatusScheduled,
		PublishAt: &publishAt,
	})
	require.NoError(t, err)
	require.Equal(t, "abc123", id)

	require.True(t, strings.HasPrefix(gotAuth, "Ghost "))
	require.Len(t, received.Posts, 1)
	require.Equal(t, "Scheduled Post", received.Posts[0]["title"])
	require.Equal(t, "scheduled", received.Posts[0]["status"])
	require.Equal(t, "2026-09-03T09:00:00Z", received.Posts[0]["published_at"])
	require.Contains(t, received.Posts[0]["mobiledoc"], "<p>body</p>")
}

func TestSubmitPostDraftOmitsPublishedAt(t *testing.T) {
	var received struct {
		Posts []map[string]interface{} `json:"posts"`
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"posts":[{"id":"d1"}]}`))
	}))
	defer ts.Close()

	c := testClient(config.GhostConfig{AdminAPIKey: "keyid:deadbeef", AdminAPIURL: ts.URL})

	_, err := c.SubmitPost(context.Background(), &models.Post{
		Title:   "Review Draft",
		Content: "<p>body</p>",
		Status:  models.PostStatusDraft,
	})
	require.NoError(t, err)
	require.NotContains(t, received.Posts[0], "published_at")
}

func TestSubmitPostAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors":[{"message":"validation failed"}]}`))
	}))
	defer ts.Close()

	c := testClient(config.GhostConfig{AdminAPIKey: "keyid:deadbeef", AdminAPIURL: ts.URL})

	_, err := c.SubmitPost(context.Background(), &models.Post{Title: "Bad", Content: "x"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "422")
}

func TestFetchPublished(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "contentkey", r.URL.Query().Get("key"))
		require.Equal(t, "visibility:public", r.URL.Query().Get("filter"))
		w.Write([]byte(`{"posts":[
			{"title":"Post A","meta":{"views":100,"clicks":10,"shares":2}},
			{"title":"","meta":{}}
		]}`))
	}))
	defer ts.Close()

	c := testClient(config.GhostConfig{
		ContentAPIKey: "contentkey",
		ContentAPIURL: ts.URL,
	})

	posts, err := c.FetchPublished(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, "Post A", posts[0].Title)
	require.Equal(t, 10, posts[0].Clicks)
	// Untitled posts get a placeholder, metrics zero-fill
	require.Equal(t, "Untitled Post", posts[1].Title)
	require.Zero(t, posts[1].Clicks)
}

func TestFetchPublishedNotConfigured(t *testing.T) {
	c := testClient(config.GhostConfig{})

	_, err := c.FetchPublished(context.Background(), 5)
	require.Error(t, err)
}

func TestUploadImage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		require.Equal(t, "photo.jpg", header.Filename)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"images":[{"url":"https://cms.example.com/content/images/photo.jpg"}]}`))
	}))
	defer ts.Close()

	c := testClient(config.GhostConfig{
		AdminAPIKey:    "keyid:deadbeef",
		ImageUploadURL: ts.URL,
	})

	url, err := c.UploadImage(context.Background(), "photo.jpg", []byte{0xFF, 0xD8})
	require.NoError(t, err)
	require.Equal(t, "https://cms.example.com/content/images/photo.jpg", url)
}
