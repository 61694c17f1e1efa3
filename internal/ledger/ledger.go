package ledger

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/blog-agent/internal/models"
	"github.com/blog-agent/pkg/logger"
)

// TopicStore is the slice of the repository the ledger needs.
type TopicStore interface {
	AppendUsedTopic(ctx context.Context, topic string) error
	ListUsedTopics(ctx context.Context) ([]*models.UsedTopic, error)
	TrimUsedTopics(ctx context.Context, keep int) error
	ResetUsedTopics(ctx context.Context) error
}

// Ledger tracks which catalog topics have been used and picks the next
// one without repetition until the catalog is exhausted.
type Ledger struct {
	store TopicStore
	limit int
	log   *logger.Logger

	// pickIndex selects among eligible topics; swapped in tests
	pickIndex func(n int) int
}

// New creates a topic ledger. limit bounds the retained used-topic
// history; older entries are evicted first.
func New(store TopicStore, limit int, log *logger.Logger) *Ledger {
	if limit <= 0 {
		limit = 50
	}
	return &Ledger{
		store:     store,
		limit:     limit,
		log:       log.WithComponent("ledger"),
		pickIndex: rand.Intn,
	}
}

// Pick selects a topic from the catalog that has not been used recently.
// When every catalog topic has been used, the history is reset first so
// selection always succeeds. The updated history is persisted before
// returning.
func (l *Ledger) Pick(ctx context.Context, catalog []string) (string, error) {
	if len(catalog) == 0 {
		return "", fmt.Errorf("topic catalog is empty")
	}

	used, err := l.store.ListUsedTopics(ctx)
	if err != nil {
		return "", fmt.Errorf("load used topics: %w", err)
	}

	usedSet := make(map[string]bool, len(used))
	for _, u := range used {
		usedSet[u.Topic] = true
	}

	eligible := make([]string, 0, len(catalog))
	for _, t := range catalog {
		if !usedSet[t] {
			eligible = append(eligible, t)
		}
	}

	if len(eligible) == 0 {
		l.log.Info().Msg("All topics used, resetting rotation history")
		if err := l.store.ResetUsedTopics(ctx); err != nil {
			return "", fmt.Errorf("reset used topics: %w", err)
		}
		eligible = append(eligible[:0], catalog...)
	}

	topic := eligible[l.pickIndex(len(eligible))]

	if err := l.store.AppendUsedTopic(ctx, topic); err != nil {
		return "", fmt.Errorf("record used topic: %w", err)
	}
	if err := l.store.TrimUsedTopics(ctx, l.limit); err != nil {
		return "", fmt.Errorf("trim used topics: %w", err)
	}

	l.log.Info().
		Str("topic", topic).
		Int("eligible", len(eligible)).
		Msg("Topic selected")

	return topic, nil
}
