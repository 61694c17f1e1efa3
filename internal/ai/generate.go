package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// stripMarkdownCodeBlock removes markdown code block delimiters from AI responses
func stripMarkdownCodeBlock(response string) string {
	response = strings.TrimSpace(response)

	// Find the first { which starts valid JSON
	startIdx := strings.Index(response, "{")
	if startIdx == -1 {
		return response
	}

	// Find the last } which ends valid JSON
	endIdx := strings.LastIndex(response, "}")
	if endIdx == -1 || endIdx < startIdx {
		return response
	}

	// Extract just the JSON object
	return response[startIdx : endIdx+1]
}

// GenerateArticle creates a full HTML article body for the given title.
func (c *Client) GenerateArticle(ctx context.Context, title string) (string, error) {
	userPrompt := fmt.Sprintf(ArticleUserPrompt, title)

	response, err := c.Complete(ctx, ArticleSystemPrompt, userPrompt)
	if err != nil {
		return "", err
	}

	content := strings.TrimSpace(response)
	// Claude occasionally fences the HTML despite the instruction
	content = strings.TrimPrefix(content, "```html")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	if content == "" {
		return "", fmt.Errorf("empty article body for title %q", title)
	}

	c.log.Info().
		Str("title", title).
		Int("content_chars", len(content)).
		Msg("Article generated")

	return content, nil
}

// GenerateTitleVariations produces up to count stylistic variations of the seed title.
func (c *Client) GenerateTitleVariations(ctx context.Context, seed string, count int) ([]string, error) {
	if count <= 0 || count > 5 {
		count = 5
	}

	userPrompt := fmt.Sprintf(TitleVariationUserPrompt, count, seed)

	response, err := c.CompleteWithJSON(ctx, TitleVariationSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	var result struct {
		Titles []string `json:"titles"`
	}
	if err := json.Unmarshal([]byte(stripMarkdownCodeBlock(response)), &result); err != nil {
		c.log.Error().
			Err(err).
			Str("response", response).
			Msg("Failed to parse title variations response")
		return nil, fmt.Errorf("failed to parse title variations: %w", err)
	}

	titles := make([]string, 0, len(result.Titles))
	for _, t := range result.Titles {
		t = strings.TrimSpace(strings.TrimLeft(t, "1234567890. "))
		if t != "" {
			titles = append(titles, t)
		}
	}

	if len(titles) == 0 {
		return nil, fmt.Errorf("no usable title variations returned")
	}
	if len(titles) > count {
		titles = titles[:count]
	}

	return titles, nil
}

// SelectBestTitle asks the model to rank candidates and pick exactly one.
func (c *Client) SelectBestTitle(ctx context.Context, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", fmt.Errorf("no candidate titles to rank")
	}

	var list strings.Builder
	for i, t := range candidates {
		fmt.Fprintf(&list, "[%d] %s\n", i+1, t)
	}

	userPrompt := fmt.Sprintf(TitleRankingUserPrompt, list.String())

	response, err := c.CompleteWithJSON(ctx, TitleVariationSystemPrompt, userPrompt)
	if err != nil {
		return "", err
	}

	var result struct {
		Best string `json:"best"`
	}
	if err := json.Unmarshal([]byte(stripMarkdownCodeBlock(response)), &result); err != nil {
		c.log.Error().
			Err(err).
			Str("response", response).
			Msg("Failed to parse title ranking response")
		return "", fmt.Errorf("failed to parse title ranking: %w", err)
	}

	best := strings.TrimSpace(result.Best)
	if best == "" {
		return "", fmt.Errorf("ranker returned an empty title")
	}

	return best, nil
}

// ExpandTopics generates fresh catalog topic ideas for a niche.
func (c *Client) ExpandTopics(ctx context.Context, niche string, count int) ([]string, error) {
	if count <= 0 {
		count = 5
	}

	userPrompt := fmt.Sprintf(TopicExpansionUserPrompt, count, niche)

	response, err := c.CompleteWithJSON(ctx, TopicExpansionSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	var result struct {
		Topics []string `json:"topics"`
	}
	if err := json.Unmarshal([]byte(stripMarkdownCodeBlock(response)), &result); err != nil {
		c.log.Error().
			Err(err).
			Str("response", response).
			Msg("Failed to parse topic expansion response")
		return nil, fmt.Errorf("failed to parse topic expansion: %w", err)
	}

	topics := make([]string, 0, len(result.Topics))
	for _, t := range result.Topics {
		t = strings.TrimSpace(strings.Trim(t, "- "))
		if t != "" {
			topics = append(topics, t)
		}
	}

	return topics, nil
}

// CorrectText asks the model to fix grammar and returns the corrected text.
// Used as the degraded grammar checker when no dedicated service is available.
func (c *Client) CorrectText(ctx context.Context, text string) (string, error) {
	userPrompt := fmt.Sprintf(GrammarUserPrompt, text)

	response, err := c.Complete(ctx, GrammarSystemPrompt, userPrompt)
	if err != nil {
		return "", err
	}

	corrected := strings.TrimSpace(response)
	if corrected == "" {
		return "", fmt.Errorf("empty correction response")
	}

	return corrected, nil
}
