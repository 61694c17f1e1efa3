package quality

import (
	"context"

	"github.com/blog-agent/internal/config"
	"github.com/blog-agent/pkg/logger"
)

// Gate scores article content and decides the auto-publish vs. review
// branch. Scoring is total: it never returns an error, falling back to
// the configured neutral score when every checker fails.
type Gate struct {
	primary      Checker
	degraded     Checker
	threshold    int
	defaultScore int
	log          *logger.Logger
}

// NewGate creates a quality gate. primary may be nil when no grammar
// service is configured; degraded may be nil in tests.
func NewGate(primary, degraded Checker, cfg config.QualityConfig, log *logger.Logger) *Gate {
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = 80
	}
	defaultScore := cfg.DefaultScore
	if defaultScore <= 0 {
		defaultScore = 50
	}
	return &Gate{
		primary:      primary,
		degraded:     degraded,
		threshold:    threshold,
		defaultScore: defaultScore,
		log:          log.WithComponent("quality"),
	}
}

// Score rates the content on a 0-100 scale from the grammar error
// count. The readability measure is logged for observability but does
// not affect the score.
func (g *Gate) Score(ctx context.Context, content string) int {
	readability := FleschReadingEase(content)

	errCount, ok := g.countErrors(ctx, content)
	if !ok {
		g.log.Warn().
			Int("default_score", g.defaultScore).
			Msg("Grammar checking unavailable, using neutral score")
		return g.defaultScore
	}

	score := 100 - errCount
	if score < 0 {
		score = 0
	}

	g.log.Info().
		Int("score", score).
		Int("grammar_errors", errCount).
		Float64("readability", readability).
		Msg("Content scored")

	return score
}

// ShouldAutoPublish reports whether the score clears the threshold.
func (g *Gate) ShouldAutoPublish(score int) bool {
	return score >= g.threshold
}

// Threshold returns the configured auto-publish threshold.
func (g *Gate) Threshold() int {
	return g.threshold
}

func (g *Gate) countErrors(ctx context.Context, content string) (int, bool) {
	if g.primary != nil {
		count, _, err := g.primary.Check(ctx, content)
		if err == nil {
			return count, true
		}
		g.log.Warn().Err(err).Msg("Primary grammar checker failed, trying degraded checker")
	}

	if g.degraded != nil {
		count, _, err := g.degraded.Check(ctx, content)
		if err == nil {
			return count, true
		}
		g.log.Warn().Err(err).Msg("Degraded grammar checker failed")
	}

	return 0, false
}
