package title

import (
	"context"
	"fmt"

	"github.com/blog-agent/internal/models"
	"github.com/blog-agent/pkg/logger"
)

// Strategy proposes a seed title. Strategies are tried in order; the
// first success wins.
type Strategy interface {
	Name() string
	Propose(ctx context.Context) (string, error)
}

// Enricher turns a seed title into stylistic variations and picks the
// strongest one. Enrichment failures are never fatal.
type Enricher interface {
	GenerateTitleVariations(ctx context.Context, seed string, count int) ([]string, error)
	SelectBestTitle(ctx context.Context, candidates []string) (string, error)
}

// StateStore persists the chosen candidate title between runs.
type StateStore interface {
	SetState(ctx context.Context, key, value string) error
}

// Synthesizer produces the title the rest of the pipeline works from.
type Synthesizer struct {
	strategies []Strategy
	enricher   Enricher
	state      StateStore
	variations int
	log        *logger.Logger
}

// New creates a title synthesizer. strategies are consulted in order.
func New(strategies []Strategy, enricher Enricher, state StateStore, log *logger.Logger) *Synthesizer {
	return &Synthesizer{
		strategies: strategies,
		enricher:   enricher,
		state:      state,
		variations: 5,
		log:        log.WithComponent("title"),
	}
}

// Synthesize resolves a seed title through the strategy chain, enriches
// it when possible, and persists the result. The returned title is
// never empty: if every strategy and enrichment path fails, fallback is
// returned as-is.
func (s *Synthesizer) Synthesize(ctx context.Context, fallback string) (string, error) {
	seed := s.resolveSeed(ctx, fallback)
	chosen := s.enrich(ctx, seed)

	if s.state != nil {
		if err := s.state.SetState(ctx, models.StateKeyCandidateTitle, chosen); err != nil {
			s.log.Warn().Err(err).Msg("Failed to persist candidate title")
		}
	}

	s.log.Info().
		Str("seed", seed).
		Str("title", chosen).
		Msg("Title synthesized")

	return chosen, nil
}

func (s *Synthesizer) resolveSeed(ctx context.Context, fallback string) string {
	for _, strat := range s.strategies {
		seed, err := strat.Propose(ctx)
		if err != nil {
			s.log.Debug().
				Err(err).
				Str("strategy", strat.Name()).
				Msg("Title strategy unavailable")
			continue
		}
		if seed != "" {
			s.log.Debug().
				Str("strategy", strat.Name()).
				Str("seed", seed).
				Msg("Title strategy succeeded")
			return seed
		}
	}
	return fallback
}

func (s *Synthesizer) enrich(ctx context.Context, seed string) string {
	if s.enricher == nil {
		return seed
	}

	variations, err := s.enricher.GenerateTitleVariations(ctx, seed, s.variations)
	if err != nil || len(variations) == 0 {
		s.log.Warn().Err(err).Msg("Title enrichment failed, using seed")
		return seed
	}

	best, err := s.enricher.SelectBestTitle(ctx, variations)
	if err != nil || best == "" {
		s.log.Warn().Err(err).Msg("Title ranking failed, using seed")
		return seed
	}

	return best
}

// FuncStrategy adapts a plain function into a Strategy.
type FuncStrategy struct {
	StrategyName string
	Fn           func(ctx context.Context) (string, error)
}

// Name returns the strategy name
func (f FuncStrategy) Name() string { return f.StrategyName }

// Propose invokes the wrapped function
func (f FuncStrategy) Propose(ctx context.Context) (string, error) {
	if f.Fn == nil {
		return "", fmt.Errorf("strategy %s not configured", f.StrategyName)
	}
	return f.Fn(ctx)
}
