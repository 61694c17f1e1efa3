package ghost

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/blog-agent/internal/config"
	"github.com/blog-agent/internal/models"
	"github.com/blog-agent/pkg/logger"
	"github.com/blog-agent/pkg/ratelimit"
)

// tokenTTL is the validity window Ghost expects for Admin API tokens.
const tokenTTL = 5 * time.Minute

// Client talks to the Ghost Admin and Content APIs.
type Client struct {
	cfg         config.GhostConfig
	httpClient  *http.Client
	rateLimiter *ratelimit.MultiLimiter
	log         *logger.Logger
}

// NewClient creates a Ghost API client.
func NewClient(cfg config.GhostConfig, limiter *ratelimit.MultiLimiter, log *logger.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		rateLimiter: limiter,
		log:         log.WithComponent("ghost"),
	}
}

// adminToken signs a short-lived JWT from the "key_id:hex_secret" admin key.
func (c *Client) adminToken() (string, error) {
	keyID, secretHex, ok := strings.Cut(c.cfg.AdminAPIKey, ":")
	if !ok {
		return "", fmt.Errorf("invalid admin API key format, expected 'key_id:secret'")
	}

	secret, err := hex.DecodeString(secretHex)
	if err != nil {
		return "", fmt.Errorf("invalid admin API key secret: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
		"aud": "/admin/",
	})
	token.Header["kid"] = keyID

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// mobiledoc wraps an HTML body in the card envelope Ghost stores posts in.
func mobiledoc(html string) (string, error) {
	doc := map[string]any{
		"version": "0.3.1",
		"atoms":   []any{},
		"cards":   []any{[]any{"html", map[string]string{"html": html}}},
		"markups": []any{},
		"sections": []any{
			[]any{10, 0},
		},
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode mobiledoc: %w", err)
	}
	return string(raw), nil
}

type postPayload struct {
	Title        string   `json:"title"`
	Mobiledoc    string   `json:"mobiledoc"`
	Status       string   `json:"status"`
	PublishedAt  string   `json:"published_at,omitempty"`
	Excerpt      string   `json:"excerpt,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	FeatureImage string   `json:"feature_image,omitempty"`
}

// SubmitPost sends a post to the Admin API and returns the created post ID.
func (c *Client) SubmitPost(ctx context.Context, post *models.Post) (string, error) {
	if err := c.rateLimiter.Wait(ctx, ratelimit.LimiterGhost); err != nil {
		return "", fmt.Errorf("rate limit error: %w", err)
	}

	token, err := c.adminToken()
	if err != nil {
		return "", err
	}

	doc, err := mobiledoc(post.Content)
	if err != nil {
		return "", err
	}

	payload := postPayload{
		Title:        post.Title,
		Mobiledoc:    doc,
		Status:       string(post.Status),
		Excerpt:      post.Excerpt,
		Tags:         post.Tags,
		FeatureImage: post.FeatureImage,
	}
	if post.PublishAt != nil {
		payload.PublishedAt = post.PublishAt.UTC().Format(time.RFC3339)
	}

	body, err := json.Marshal(map[string]any{"posts": []postPayload{payload}})
	if err != nil {
		return "", fmt.Errorf("failed to encode post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AdminAPIURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Ghost "+token)
	req.Header.Set("Content-Type", "application/json")

	c.log.Info().
		Str("title", post.Title).
		Str("status", string(post.Status)).
		Msg("Submitting post to Ghost")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ghost API error (status %d): %s", resp.StatusCode, string(raw))
	}

	var result struct {
		Posts []struct {
			ID string `json:"id"`
		} `json:"posts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Posts) == 0 {
		return "", fmt.Errorf("ghost returned no posts in response")
	}

	c.log.Info().
		Str("post_id", result.Posts[0].ID).
		Str("title", post.Title).
		Msg("Post submitted")

	return result.Posts[0].ID, nil
}

// PublishedPost is a published post with its engagement metadata from
// the Content API.
type PublishedPost struct {
	Title  string
	Clicks int
	Shares int
	Views  int
}

// FetchPublished retrieves recent public posts with engagement meta.
func (c *Client) FetchPublished(ctx context.Context, limit int) ([]PublishedPost, error) {
	if c.cfg.ContentAPIKey == "" || c.cfg.ContentAPIURL == "" {
		return nil, fmt.Errorf("ghost content API not configured")
	}
	if limit <= 0 {
		limit = 5
	}

	if err := c.rateLimiter.Wait(ctx, ratelimit.LimiterGhost); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	endpoint := fmt.Sprintf("%s/posts/?key=%s&filter=visibility:public&limit=%d",
		strings.TrimSuffix(c.cfg.ContentAPIURL, "/"), c.cfg.ContentAPIKey, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ghost API error (status %d): %s", resp.StatusCode, string(raw))
	}

	var result struct {
		Posts []struct {
			Title string `json:"title"`
			Meta  struct {
				Views  int `json:"views"`
				Clicks int `json:"clicks"`
				Shares int `json:"shares"`
			} `json:"meta"`
		} `json:"posts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	posts := make([]PublishedPost, 0, len(result.Posts))
	for _, p := range result.Posts {
		title := p.Title
		if title == "" {
			title = "Untitled Post"
		}
		posts = append(posts, PublishedPost{
			Title:  title,
			Clicks: p.Meta.Clicks,
			Shares: p.Meta.Shares,
			Views:  p.Meta.Views,
		})
	}

	c.log.Info().Int("posts", len(posts)).Msg("Fetched published posts")

	return posts, nil
}

// UploadImage uploads image bytes to Ghost and returns the hosted URL.
func (c *Client) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	if c.cfg.ImageUploadURL == "" {
		return "", fmt.Errorf("ghost image upload URL not configured")
	}

	if err := c.rateLimiter.Wait(ctx, ratelimit.LimiterGhost); err != nil {
		return "", fmt.Errorf("rate limit error: %w", err)
	}

	token, err := c.adminToken()
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ImageUploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Ghost "+token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.log.Debug().Str("filename", filename).Int("size_bytes", len(data)).Msg("Uploading image to Ghost")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ghost API error (status %d): %s", resp.StatusCode, string(raw))
	}

	var result struct {
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Images) == 0 || result.Images[0].URL == "" {
		return "", fmt.Errorf("ghost returned no image URL")
	}

	c.log.Info().Str("url", result.Images[0].URL).Msg("Image uploaded to Ghost")

	return result.Images[0].URL, nil
}
