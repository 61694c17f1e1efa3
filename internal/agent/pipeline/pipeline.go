package pipeline

import (
	"context"
	"time"

	"github.com/blog-agent/pkg/logger"
)

// Stage is one named step of the weekly batch run.
type Stage struct {
	Name string
	Run  func(ctx context.Context) error
}

// StageResult records one stage's outcome and duration.
type StageResult struct {
	Name     string
	Duration time.Duration
	Err      error
}

// BatchResult summarizes a full pipeline run.
type BatchResult struct {
	StartedAt time.Time
	Duration  time.Duration
	Stages    []StageResult
	Failed    int
}

// Succeeded reports whether every stage completed without error.
func (r *BatchResult) Succeeded() bool {
	return r.Failed == 0
}

// Runner executes pipeline stages in order. Stages are weakly isolated:
// a failed stage is recorded and later stages still run, so a transient
// analytics outage cannot block publishing.
type Runner struct {
	stages []Stage
	log    *logger.Logger
}

// NewRunner creates a pipeline runner over the given stages.
func NewRunner(stages []Stage, log *logger.Logger) *Runner {
	return &Runner{
		stages: stages,
		log:    log.WithComponent("pipeline"),
	}
}

// Run executes all stages in order and returns the batch result.
func (r *Runner) Run(ctx context.Context) *BatchResult {
	result := &BatchResult{
		StartedAt: time.Now(),
		Stages:    make([]StageResult, 0, len(r.stages)),
	}

	r.log.Info().Int("stages", len(r.stages)).Msg("Pipeline run started")

	for _, stage := range r.stages {
		log := r.log.WithStage(stage.Name)
		log.Info().Msg("Stage started")

		start := time.Now()
		err := stage.Run(ctx)
		elapsed := time.Since(start)

		result.Stages = append(result.Stages, StageResult{
			Name:     stage.Name,
			Duration: elapsed,
			Err:      err,
		})

		if err != nil {
			result.Failed++
			log.Error().Err(err).Dur("duration", elapsed).Msg("Stage failed")
			continue
		}
		log.Info().Dur("duration", elapsed).Msg("Stage completed")
	}

	result.Duration = time.Since(result.StartedAt)

	r.log.Info().
		Int("stages", len(result.Stages)).
		Int("failed", result.Failed).
		Dur("duration", result.Duration).
		Msg("Pipeline run finished")

	return result
}
