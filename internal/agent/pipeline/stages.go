package pipeline

import (
	"context"
	"fmt"

	"github.com/blog-agent/internal/agent/publisher"
	"github.com/blog-agent/internal/models"
	"github.com/blog-agent/internal/predictor"
)

// Stage names, in execution order.
const (
	StageFetchEngagement = "fetch-engagement"
	StageAnalyzeABData   = "analyze-ab-data"
	StageTrainPredictor  = "train-predictor"
	StageSynthesizeTitle = "synthesize-title"
	StageGenerateImage   = "generate-image"
	StagePublishBlog     = "publish-blog"
)

// EngagementCollector refreshes and analyzes the engagement snapshot.
type EngagementCollector interface {
	Refresh(ctx context.Context) ([]*models.EngagementRecord, error)
	AnalyzeAB(ctx context.Context) (string, error)
}

// Trainer fits the click predictor on the current snapshot.
type Trainer interface {
	Train(ctx context.Context) (*predictor.Model, error)
}

// TitleSynthesizer precomputes the candidate title for this run.
type TitleSynthesizer interface {
	Synthesize(ctx context.Context, fallback string) (string, error)
}

// ImageResolver warms the feature image for the candidate title.
type ImageResolver interface {
	FeatureImage(ctx context.Context, title string) string
}

// Publisher runs the publish cycle.
type Publisher interface {
	PublishBlog(ctx context.Context) (*publisher.PublishResult, error)
}

// StandardStages wires the weekly batch in its canonical order.
// fallbackTopic seeds title synthesis when no strategy produces one.
func StandardStages(
	collector EngagementCollector,
	trainer Trainer,
	titles TitleSynthesizer,
	images ImageResolver,
	pub Publisher,
	fallbackTopic string,
) []Stage {
	// candidate carries the synthesized title into the image stage.
	// Stages are weakly isolated, so it may be empty if synthesis failed.
	var candidate string

	return []Stage{
		{
			Name: StageFetchEngagement,
			Run: func(ctx context.Context) error {
				_, err := collector.Refresh(ctx)
				return err
			},
		},
		{
			Name: StageAnalyzeABData,
			Run: func(ctx context.Context) error {
				_, err := collector.AnalyzeAB(ctx)
				return err
			},
		},
		{
			Name: StageTrainPredictor,
			Run: func(ctx context.Context) error {
				_, err := trainer.Train(ctx)
				return err
			},
		},
		{
			Name: StageSynthesizeTitle,
			Run: func(ctx context.Context) error {
				title, err := titles.Synthesize(ctx, fallbackTopic)
				if err != nil {
					return err
				}
				candidate = title
				return nil
			},
		},
		{
			Name: StageGenerateImage,
			Run: func(ctx context.Context) error {
				if images == nil {
					return nil
				}
				title := candidate
				if title == "" {
					title = fallbackTopic
				}
				if url := images.FeatureImage(ctx, title); url == "" {
					return fmt.Errorf("no feature image resolved for %q", title)
				}
				return nil
			},
		},
		{
			Name: StagePublishBlog,
			Run: func(ctx context.Context) error {
				_, err := pub.PublishBlog(ctx)
				return err
			},
		},
	}
}
