package catalog

import (
	"context"
	"time"

	"github.com/blog-agent/internal/config"
	"github.com/blog-agent/internal/source"
	"github.com/blog-agent/pkg/logger"
)

// Source implements TopicSource for the configured topic catalog
type Source struct {
	topics []string
	log    *logger.Logger
}

// New creates a new catalog source
func New(cfg config.TopicsConfig, log *logger.Logger) *Source {
	return &Source{
		topics: cfg.Catalog,
		log:    log.WithComponent("catalog"),
	}
}

// Name returns the source name
func (s *Source) Name() string {
	return "topic-catalog"
}

// Type returns "catalog"
func (s *Source) Type() string {
	return "catalog"
}

// Fetch returns the configured catalog entries as suggestions
func (s *Source) Fetch(ctx context.Context) ([]source.Suggestion, error) {
	suggestions := make([]source.Suggestion, 0, len(s.topics))

	for _, topic := range s.topics {
		suggestions = append(suggestions, source.Suggestion{
			Title:       topic,
			Summary:     "Configured catalog topic",
			SourceType:  "catalog",
			SourceName:  "topic-catalog",
			PublishedAt: time.Now(),
		})
	}

	s.log.Debug().Int("count", len(suggestions)).Msg("Returned catalog suggestions")

	return suggestions, nil
}

// HealthCheck always succeeds for the catalog source
func (s *Source) HealthCheck(ctx context.Context) error {
	return nil
}

// Ensure Source implements source.TopicSource
var _ source.TopicSource = (*Source)(nil)
