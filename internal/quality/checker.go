package quality

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/blog-agent/pkg/logger"
	"github.com/blog-agent/pkg/ratelimit"
)

// Checker counts grammar errors in a text. corrected may be empty when
// the backend reports errors without rewriting.
type Checker interface {
	Check(ctx context.Context, text string) (errorCount int, corrected string, err error)
}

// LanguageToolChecker counts grammar errors via the LanguageTool HTTP API.
type LanguageToolChecker struct {
	endpoint    string
	httpClient  *http.Client
	rateLimiter *ratelimit.MultiLimiter
	log         *logger.Logger
}

// NewLanguageToolChecker creates a grammar checker against the given
// LanguageTool endpoint.
func NewLanguageToolChecker(endpoint string, limiter *ratelimit.MultiLimiter, log *logger.Logger) *LanguageToolChecker {
	return &LanguageToolChecker{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: limiter,
		log:         log.WithComponent("languagetool"),
	}
}

// Check submits the text and returns the number of reported matches.
func (c *LanguageToolChecker) Check(ctx context.Context, text string) (int, string, error) {
	if c.endpoint == "" {
		return 0, "", fmt.Errorf("languagetool endpoint not configured")
	}

	if err := c.rateLimiter.Wait(ctx, ratelimit.LimiterLanguageTool); err != nil {
		return 0, "", fmt.Errorf("rate limit error: %w", err)
	}

	form := url.Values{}
	form.Set("text", stripHTML(text))
	form.Set("language", "en-US")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.log.Debug().Int("text_chars", len(text)).Msg("Checking grammar")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Matches []struct {
			Message string `json:"message"`
		} `json:"matches"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, "", fmt.Errorf("failed to decode response: %w", err)
	}

	c.log.Debug().Int("matches", len(result.Matches)).Msg("Grammar check completed")

	return len(result.Matches), "", nil
}

// Corrector rewrites a text with grammar fixed; implemented by the
// generative-text client.
type Corrector interface {
	CorrectText(ctx context.Context, text string) (string, error)
}

// CorrectionChecker is the degraded checker used when no grammar
// service is available: it asks a generative model to correct the text
// and approximates the error count as the character-level Hamming
// distance between original and corrected text. Lengths are truncated
// to the shorter text, so this is a lossy approximation.
type CorrectionChecker struct {
	corrector Corrector
	log       *logger.Logger
}

// NewCorrectionChecker wraps a Corrector as a degraded grammar checker.
func NewCorrectionChecker(corrector Corrector, log *logger.Logger) *CorrectionChecker {
	return &CorrectionChecker{
		corrector: corrector,
		log:       log.WithComponent("quality"),
	}
}

// Check corrects the text and counts differing characters.
func (c *CorrectionChecker) Check(ctx context.Context, text string) (int, string, error) {
	corrected, err := c.corrector.CorrectText(ctx, text)
	if err != nil {
		return 0, "", fmt.Errorf("correction failed: %w", err)
	}

	distance := hammingDistance(text, corrected)

	c.log.Debug().
		Int("approx_errors", distance).
		Msg("Approximated grammar errors from correction diff")

	return distance, corrected, nil
}

// hammingDistance counts positions where the two strings differ,
// truncated to the shorter length.
func hammingDistance(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	distance := 0
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			distance++
		}
	}
	return distance
}
