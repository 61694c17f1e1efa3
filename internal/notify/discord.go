package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/blog-agent/internal/config"
	"github.com/blog-agent/pkg/logger"
	"github.com/blog-agent/pkg/ratelimit"
)

// Notifier sends lifecycle event messages to a Discord webhook.
type Notifier struct {
	cfg         config.DiscordConfig
	httpClient  *http.Client
	rateLimiter *ratelimit.MultiLimiter
	log         *logger.Logger
}

// NewNotifier creates a Discord webhook notifier.
func NewNotifier(cfg config.DiscordConfig, limiter *ratelimit.MultiLimiter, log *logger.Logger) *Notifier {
	return &Notifier{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		rateLimiter: limiter,
		log:         log.WithComponent("notify"),
	}
}

// Notify posts a message to the webhook. Errors are returned for logging
// but notification failures must never abort a publish.
func (n *Notifier) Notify(ctx context.Context, message string) error {
	if n.cfg.WebhookURL == "" {
		n.log.Debug().Msg("Discord webhook not configured, skipping notification")
		return nil
	}

	if err := n.rateLimiter.Wait(ctx, ratelimit.LimiterDiscord); err != nil {
		return fmt.Errorf("rate limit error: %w", err)
	}

	body, err := json.Marshal(map[string]string{"content": message})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("discord webhook error (status %d): %s", resp.StatusCode, string(raw))
	}

	n.log.Debug().Str("message", message).Msg("Notification sent")
	return nil
}
