package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blog-agent/internal/models"
	"github.com/blog-agent/internal/storage"
	"github.com/blog-agent/pkg/logger"
)

// ErrUnavailable is returned when no trained model or engagement data
// exists. Callers fall back to the topic ledger.
var ErrUnavailable = errors.New("prediction unavailable")

// Store is the slice of the repository the predictor needs.
type Store interface {
	ListEngagement(ctx context.Context) ([]*models.EngagementRecord, error)
	GetState(ctx context.Context, key string) (string, error)
	SetState(ctx context.Context, key, value string) error
}

// Model is a single-feature linear fit mapping title length to expected
// clicks. Clicks are the primary ranking metric; shares and views are
// fetched but not modeled.
type Model struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Samples   int     `json:"samples"`
}

// Predict returns the expected clicks for a title of the given length.
func (m Model) Predict(titleLength int) float64 {
	return m.Slope*float64(titleLength) + m.Intercept
}

// Predictor trains on historical engagement and picks the title most
// likely to perform.
type Predictor struct {
	store Store
	log   *logger.Logger
}

// New creates an engagement predictor backed by the repository.
func New(store Store, log *logger.Logger) *Predictor {
	return &Predictor{
		store: store,
		log:   log.WithComponent("predictor"),
	}
}

// Train fits the model on the stored engagement snapshot and persists
// the coefficients.
func (p *Predictor) Train(ctx context.Context) (*Model, error) {
	records, err := p.store.ListEngagement(ctx)
	if err != nil {
		return nil, fmt.Errorf("load engagement data: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no engagement data to train on: %w", ErrUnavailable)
	}

	model := fit(records)

	raw, err := json.Marshal(model)
	if err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	if err := p.store.SetState(ctx, models.StateKeyPredictorModel, string(raw)); err != nil {
		return nil, fmt.Errorf("persist model: %w", err)
	}

	p.log.Info().
		Int("samples", model.Samples).
		Float64("slope", model.Slope).
		Float64("intercept", model.Intercept).
		Msg("Predictor trained")

	return &model, nil
}

// BestTitle predicts engagement for every known title and returns the
// one with the highest expected clicks.
func (p *Predictor) BestTitle(ctx context.Context) (string, error) {
	raw, err := p.store.GetState(ctx, models.StateKeyPredictorModel)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("no trained model: %w", ErrUnavailable)
		}
		return "", fmt.Errorf("load model: %w", err)
	}

	var model Model
	if err := json.Unmarshal([]byte(raw), &model); err != nil {
		return "", fmt.Errorf("decode model: %w", err)
	}

	records, err := p.store.ListEngagement(ctx)
	if err != nil {
		return "", fmt.Errorf("load engagement data: %w", err)
	}
	if len(records) == 0 {
		return "", fmt.Errorf("no engagement data: %w", ErrUnavailable)
	}

	best := records[0]
	bestScore := model.Predict(len(best.Title))
	for _, r := range records[1:] {
		if score := model.Predict(len(r.Title)); score > bestScore {
			best, bestScore = r, score
		}
	}

	p.log.Info().
		Str("title", best.Title).
		Float64("predicted_clicks", bestScore).
		Msg("Predicted best title")

	return best.Title, nil
}

// fit computes the least-squares line for title length vs. clicks. With
// a single sample or no length variance the line degenerates to the
// mean, which still ranks titles deterministically.
func fit(records []*models.EngagementRecord) Model {
	n := float64(len(records))
	var sumX, sumY, sumXY, sumXX float64
	for _, r := range records {
		x := float64(len(r.Title))
		y := float64(r.Clicks)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	model := Model{Samples: len(records)}
	if denom == 0 {
		model.Intercept = sumY / n
		return model
	}

	model.Slope = (n*sumXY - sumX*sumY) / denom
	model.Intercept = (sumY - model.Slope*sumX) / n
	return model
}
