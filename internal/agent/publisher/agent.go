package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/blog-agent/internal/config"
	"github.com/blog-agent/internal/models"
	"github.com/blog-agent/internal/storage"
	"github.com/blog-agent/pkg/logger"
)

// TopicPicker selects the next unused topic from the catalog.
type TopicPicker interface {
	Pick(ctx context.Context, catalog []string) (string, error)
}

// TitleSynthesizer produces the post title, falling back to the topic.
type TitleSynthesizer interface {
	Synthesize(ctx context.Context, fallback string) (string, error)
}

// Generator writes the article body for a title.
type Generator interface {
	GenerateArticle(ctx context.Context, title string) (string, error)
}

// Scorer grades content and decides the auto-publish branch.
type Scorer interface {
	Score(ctx context.Context, content string) int
	ShouldAutoPublish(score int) bool
	Threshold() int
}

// SchedulePlanner computes the publish instant for auto-published posts.
type SchedulePlanner interface {
	NextPublishTime(now time.Time) time.Time
}

// Submitter hands a finished post to the CMS.
type Submitter interface {
	SubmitPost(ctx context.Context, post *models.Post) (string, error)
}

// ImageResolver finds a feature image URL. It degrades, never fails.
type ImageResolver interface {
	FeatureImage(ctx context.Context, title string) string
}

// Notifier reports lifecycle events. Failures are logged, never fatal.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Agent coordinates one full publish cycle: topic selection, title
// synthesis, article generation, quality gating, then either scheduled
// publication or routing to manual review.
type Agent struct {
	topics      TopicPicker
	titles      TitleSynthesizer
	generator   Generator
	scorer      Scorer
	planner     SchedulePlanner
	submitter   Submitter
	images      ImageResolver
	notifier    Notifier
	repository  storage.Repository
	topicsCfg   config.TopicsConfig
	ghostCfg    config.GhostConfig
	minContent  int
	log         *logger.Logger

	// now is injectable for deterministic scheduling tests
	now func() time.Time
}

// NewAgent creates a publish coordinator.
func NewAgent(
	topics TopicPicker,
	titles TitleSynthesizer,
	generator Generator,
	scorer Scorer,
	planner SchedulePlanner,
	submitter Submitter,
	images ImageResolver,
	notifier Notifier,
	repository storage.Repository,
	cfg *config.Config,
	log *logger.Logger,
) *Agent {
	return &Agent{
		topics:     topics,
		titles:     titles,
		generator:  generator,
		scorer:     scorer,
		planner:    planner,
		submitter:  submitter,
		images:     images,
		notifier:   notifier,
		repository: repository,
		topicsCfg:  cfg.Topics,
		ghostCfg:   cfg.Ghost,
		minContent: cfg.Quality.MinContentChars,
		log:        log.WithComponent("publisher"),
		now:        time.Now,
	}
}

// PublishResult describes the outcome of one publish cycle.
type PublishResult struct {
	Topic        string
	Title        string
	QualityScore int
	Published    bool       // true when auto-published, false when routed to review
	PostID       string     // CMS post ID
	DraftID      string     // set only when routed to review
	PublishAt    *time.Time // set only when auto-published
}

// PublishBlog runs one publish cycle end to end.
func (a *Agent) PublishBlog(ctx context.Context) (*PublishResult, error) {
	topic, err := a.topics.Pick(ctx, a.topicsCfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to pick topic: %w", err)
	}

	log := a.log.WithTopic(topic)

	title, err := a.titles.Synthesize(ctx, topic)
	if err != nil {
		// Synthesis degrades internally; an error here means even the
		// topic fallback failed to persist. Use the topic directly.
		log.Warn().Err(err).Msg("Title synthesis failed, using topic as title")
		title = topic
	}

	content, err := a.generator.GenerateArticle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("failed to generate article: %w", err)
	}
	if len(content) < a.minContent {
		return nil, fmt.Errorf("generated content too short: %d chars (minimum %d)", len(content), a.minContent)
	}

	score := a.scorer.Score(ctx, content)

	log.Info().
		Str("title", title).
		Int("quality_score", score).
		Int("threshold", a.scorer.Threshold()).
		Msg("Content generated and scored")

	if a.scorer.ShouldAutoPublish(score) {
		return a.autoPublish(ctx, topic, title, content, score)
	}
	return a.routeToReview(ctx, topic, title, content, score)
}

// autoPublish schedules the post on the CMS at the next publish slot.
func (a *Agent) autoPublish(ctx context.Context, topic, title, content string, score int) (*PublishResult, error) {
	publishAt := a.planner.NextPublishTime(a.now())

	post := &models.Post{
		Title:        title,
		Content:      content,
		Status:       models.PostStatusScheduled,
		PublishAt:    &publishAt,
		Excerpt:      a.ghostCfg.Excerpt,
		Tags:         a.ghostCfg.Tags,
		FeatureImage: a.featureImage(ctx, title),
	}

	postID, err := a.submitter.SubmitPost(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("failed to submit post: %w", err)
	}

	a.notify(ctx, fmt.Sprintf("Blog scheduled: %q (score %d) publishing at %s",
		title, score, publishAt.Format(time.RFC3339)))

	a.log.Info().
		Str("post_id", postID).
		Str("title", title).
		Time("publish_at", publishAt).
		Msg("Post auto-published")

	return &PublishResult{
		Topic:        topic,
		Title:        title,
		QualityScore: score,
		Published:    true,
		PostID:       postID,
		PublishAt:    &publishAt,
	}, nil
}

// routeToReview persists a pending draft and mirrors it to the CMS as
// an unscheduled draft.
func (a *Agent) routeToReview(ctx context.Context, topic, title, content string, score int) (*PublishResult, error) {
	draft := &models.Draft{
		Title:        title,
		Content:      content,
		QualityScore: score,
		Status:       models.DraftStatusPending,
	}
	if err := a.repository.CreateDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	post := &models.Post{
		Title:        title,
		Content:      content,
		Status:       models.PostStatusDraft,
		Excerpt:      a.ghostCfg.Excerpt,
		Tags:         a.ghostCfg.Tags,
		FeatureImage: a.featureImage(ctx, title),
	}

	postID, err := a.submitter.SubmitPost(ctx, post)
	if err != nil {
		// The local draft is the source of truth for review; keep it
		// even when the CMS mirror fails.
		a.log.Warn().Err(err).Str("draft_id", draft.ID).Msg("Failed to mirror draft to CMS")
	}

	a.notify(ctx, fmt.Sprintf("Blog ready for review: %q (score %d, below threshold %d), draft %s",
		title, score, a.scorer.Threshold(), draft.ID))

	a.log.Info().
		Str("draft_id", draft.ID).
		Str("title", title).
		Int("quality_score", score).
		Msg("Post routed to manual review")

	return &PublishResult{
		Topic:        topic,
		Title:        title,
		QualityScore: score,
		Published:    false,
		PostID:       postID,
		DraftID:      draft.ID,
	}, nil
}

// Approve publishes a reviewed draft at the next publish slot and
// removes it from the review queue.
func (a *Agent) Approve(ctx context.Context, draftID string) (*PublishResult, error) {
	draft, err := a.repository.GetDraftByID(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("draft %s: %w", draftID, err)
	}

	publishAt := a.planner.NextPublishTime(a.now())

	post := &models.Post{
		Title:        draft.Title,
		Content:      draft.Content,
		Status:       models.PostStatusScheduled,
		PublishAt:    &publishAt,
		Excerpt:      a.ghostCfg.Excerpt,
		Tags:         a.ghostCfg.Tags,
		FeatureImage: a.featureImage(ctx, draft.Title),
	}

	postID, err := a.submitter.SubmitPost(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("failed to submit approved draft: %w", err)
	}

	// Delete only after the CMS accepted the post so a failed submit
	// leaves the draft reviewable.
	if err := a.repository.DeleteDraft(ctx, draftID); err != nil {
		a.log.Warn().Err(err).Str("draft_id", draftID).Msg("Failed to remove approved draft")
	}

	a.notify(ctx, fmt.Sprintf("Draft approved and scheduled: %q publishing at %s",
		draft.Title, publishAt.Format(time.RFC3339)))

	a.log.Info().
		Str("draft_id", draftID).
		Str("post_id", postID).
		Time("publish_at", publishAt).
		Msg("Draft approved")

	return &PublishResult{
		Title:        draft.Title,
		QualityScore: draft.QualityScore,
		Published:    true,
		PostID:       postID,
		DraftID:      draftID,
		PublishAt:    &publishAt,
	}, nil
}

// Reject discards a reviewed draft. Nothing is published.
func (a *Agent) Reject(ctx context.Context, draftID string) error {
	draft, err := a.repository.GetDraftByID(ctx, draftID)
	if err != nil {
		return fmt.Errorf("draft %s: %w", draftID, err)
	}

	if err := a.repository.DeleteDraft(ctx, draftID); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", draftID, err)
	}

	a.notify(ctx, fmt.Sprintf("Draft rejected: %q", draft.Title))

	a.log.Info().Str("draft_id", draftID).Str("title", draft.Title).Msg("Draft rejected")

	return nil
}

// featureImage resolves the feature image. A nil resolver or any
// resolution failure yields an empty URL, never an error.
func (a *Agent) featureImage(ctx context.Context, title string) string {
	if a.images == nil {
		return ""
	}
	return a.images.FeatureImage(ctx, title)
}

// notify sends a lifecycle event, logging failures.
func (a *Agent) notify(ctx context.Context, message string) {
	if a.notifier == nil {
		return
	}
	if err := a.notifier.Notify(ctx, message); err != nil {
		a.log.Warn().Err(err).Msg("Notification failed")
	}
}
