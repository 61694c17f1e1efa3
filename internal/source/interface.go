package source

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"
)

// Suggestion is a candidate blog topic discovered by a source.
type Suggestion struct {
	Title       string
	Summary     string
	URL         string
	SourceType  string
	SourceName  string
	PublishedAt time.Time
}

// TopicSource defines the interface for topic suggestion sources
type TopicSource interface {
	// Name returns the unique name of this source
	Name() string

	// Type returns the source type (rss, catalog)
	Type() string

	// Fetch retrieves topic suggestions from the source
	Fetch(ctx context.Context) ([]Suggestion, error)

	// HealthCheck verifies the source is accessible
	HealthCheck(ctx context.Context) error
}

// GenerateExternalID creates a unique ID for a suggestion based on source and URL
func GenerateExternalID(sourceType, url string) string {
	data := fmt.Sprintf("%s:%s", sourceType, url)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash[:16]) // Use first 16 bytes (32 hex chars)
}

// Manager manages multiple topic sources
type Manager struct {
	sources []TopicSource
}

// NewManager creates a new source manager
func NewManager() *Manager {
	return &Manager{
		sources: make([]TopicSource, 0),
	}
}

// Register adds a source to the manager
func (m *Manager) Register(source TopicSource) {
	m.sources = append(m.sources, source)
}

// GetSources returns all registered sources
func (m *Manager) GetSources() []TopicSource {
	return m.sources
}

// GetSourceByName returns a source by name
func (m *Manager) GetSourceByName(name string) TopicSource {
	for _, s := range m.sources {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// FetchAll fetches suggestions from all sources concurrently
func (m *Manager) FetchAll(ctx context.Context) ([]Suggestion, []error) {
	type result struct {
		suggestions []Suggestion
		err         error
	}

	results := make(chan result, len(m.sources))

	for _, source := range m.sources {
		go func(s TopicSource) {
			suggestions, err := s.Fetch(ctx)
			results <- result{suggestions: suggestions, err: err}
		}(source)
	}

	var all []Suggestion
	var errors []error

	for range m.sources {
		r := <-results
		if r.err != nil {
			errors = append(errors, r.err)
		} else {
			all = append(all, r.suggestions...)
		}
	}

	return all, errors
}
