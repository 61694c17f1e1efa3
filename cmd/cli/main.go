package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blog-agent/internal/agent/pipeline"
	"github.com/blog-agent/internal/agent/publisher"
	"github.com/blog-agent/internal/ai"
	"github.com/blog-agent/internal/analytics"
	"github.com/blog-agent/internal/config"
	"github.com/blog-agent/internal/ghost"
	"github.com/blog-agent/internal/ledger"
	"github.com/blog-agent/internal/media"
	"github.com/blog-agent/internal/media/unsplash"
	"github.com/blog-agent/internal/models"
	"github.com/blog-agent/internal/notify"
	"github.com/blog-agent/internal/predictor"
	"github.com/blog-agent/internal/quality"
	"github.com/blog-agent/internal/review"
	"github.com/blog-agent/internal/schedule"
	"github.com/blog-agent/internal/source"
	"github.com/blog-agent/internal/source/catalog"
	"github.com/blog-agent/internal/source/rss"
	"github.com/blog-agent/internal/storage"
	"github.com/blog-agent/internal/storage/sqlite"
	"github.com/blog-agent/internal/title"
	"github.com/blog-agent/pkg/logger"
	"github.com/blog-agent/pkg/ratelimit"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logger.Logger
	repo    storage.Repository
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "blog-agent",
		Short: "Automated blog publishing agent powered by AI",
		Long: `An autonomous agent that rotates through a topic catalog, generates
articles with Claude AI, gates them on quality, and publishes to Ghost.`,
		PersistentPreRunE: initializeApp,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(pipelineCmd())
	rootCmd.AddCommand(topicsCmd())
	rootCmd.AddCommand(draftsCmd())
	rootCmd.AddCommand(predictCmd())
	rootCmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(reviewCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initializeApp(cmd *cobra.Command, args []string) error {
	var err error

	// Load config
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log = logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	// Initialize storage
	repo, err = sqlite.New(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run migrations
	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// components bundles the collaborators a publish cycle needs.
type components struct {
	aiClient  *ai.Client
	ghost     *ghost.Client
	notifier  *notify.Notifier
	collector *analytics.Collector
	predictor *predictor.Predictor
	titles    *title.Synthesizer
	planner   *schedule.Planner
	gate      *quality.Gate
	images    *media.Resolver
	ledger    *ledger.Ledger
	publisher *publisher.Agent
}

// buildComponents wires the full agent from config.
func buildComponents() *components {
	limiter := ratelimit.NewDefaultLimiter()

	aiClient := ai.NewClient(cfg.Anthropic, limiter, log)
	ghostClient := ghost.NewClient(cfg.Ghost, limiter, log)
	notifier := notify.NewNotifier(cfg.Discord, limiter, log)
	collector := analytics.NewCollector(ghostClient, repo, log)
	pred := predictor.New(repo, log)
	topicLedger := ledger.New(repo, cfg.Topics.UsedLimit, log)
	planner := schedule.NewPlanner(cfg.Schedule.LeadDays, cfg.Schedule.PublishHour, cfg.Schedule.Location())

	// Title strategies in priority order: predicted best performer,
	// then the recorded A/B winner.
	strategies := []title.Strategy{
		title.FuncStrategy{
			StrategyName: "predictor",
			Fn:           pred.BestTitle,
		},
		title.FuncStrategy{
			StrategyName: "ab-winner",
			Fn: func(ctx context.Context) (string, error) {
				return repo.GetState(ctx, models.StateKeyABWinner)
			},
		},
	}
	titles := title.New(strategies, aiClient, repo, log)

	// Grammar checking: LanguageTool when configured, AI correction as
	// the degraded path.
	var primary quality.Checker
	if cfg.Quality.LanguageToolURL != "" {
		primary = quality.NewLanguageToolChecker(cfg.Quality.LanguageToolURL, limiter, log)
	}
	gate := quality.NewGate(primary, quality.NewCorrectionChecker(aiClient, log), cfg.Quality, log)

	var images *media.Resolver
	if cfg.Media.Enabled {
		var photoSource media.PhotoSource
		if cfg.Media.UnsplashAPIKey != "" {
			photoSource = unsplash.NewClient(cfg.Media.UnsplashAPIKey, limiter, log)
		}
		images = media.NewResolver(cfg.Media, photoSource, ghostClient, log)
	}

	pub := publisher.NewAgent(
		topicLedger,
		titles,
		aiClient,
		gate,
		planner,
		ghostClient,
		resolverOrNil(images),
		notifier,
		repo,
		cfg,
		log,
	)

	return &components{
		aiClient:  aiClient,
		ghost:     ghostClient,
		notifier:  notifier,
		collector: collector,
		predictor: pred,
		titles:    titles,
		planner:   planner,
		gate:      gate,
		images:    images,
		ledger:    topicLedger,
		publisher: pub,
	}
}

// resolverOrNil avoids handing the publisher a typed-nil interface.
func resolverOrNil(r *media.Resolver) publisher.ImageResolver {
	if r == nil {
		return nil
	}
	return r
}

// ============ PIPELINE COMMANDS ============

func pipelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Batch pipeline commands",
	}

	cmd.AddCommand(pipelineRunCmd())
	return cmd
}

func pipelineRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full publish pipeline once",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			c := buildComponents()

			fallback := ""
			if len(cfg.Topics.Catalog) > 0 {
				fallback = cfg.Topics.Catalog[0]
			}

			var images pipeline.ImageResolver
			if c.images != nil {
				images = c.images
			}

			runner := pipeline.NewRunner(pipeline.StandardStages(
				c.collector,
				c.predictor,
				c.titles,
				images,
				c.publisher,
				fallback,
			), log)

			result := runner.Run(ctx)

			fmt.Printf("\n=== Pipeline Run ===\n")
			for _, stage := range result.Stages {
				status := "ok"
				if stage.Err != nil {
					status = fmt.Sprintf("FAILED: %v", stage.Err)
				}
				fmt.Printf("%-18s %10s  %s\n", stage.Name, stage.Duration.Round(time.Millisecond), status)
			}
			fmt.Printf("\nTotal: %s, %d/%d stages failed\n",
				result.Duration.Round(time.Millisecond), result.Failed, len(result.Stages))

			if !result.Succeeded() {
				return fmt.Errorf("%d pipeline stage(s) failed", result.Failed)
			}
			return nil
		},
	}

	return cmd
}

// ============ TOPICS COMMANDS ============

func topicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Topic catalog and rotation commands",
	}

	cmd.AddCommand(topicsListCmd())
	cmd.AddCommand(topicsPickCmd())
	cmd.AddCommand(topicsSuggestCmd())
	return cmd
}

func topicsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the catalog and recently used topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			used, err := repo.ListUsedTopics(ctx)
			if err != nil {
				return err
			}

			usedSet := make(map[string]bool, len(used))
			for _, u := range used {
				usedSet[u.Topic] = true
			}

			fmt.Printf("\n=== Catalog (%d topics) ===\n\n", len(cfg.Topics.Catalog))
			for _, topic := range cfg.Topics.Catalog {
				marker := " "
				if usedSet[topic] {
					marker = "x"
				}
				fmt.Printf("[%s] %s\n", marker, topic)
			}

			fmt.Printf("\n=== Recently Used (%d) ===\n\n", len(used))
			for _, u := range used {
				fmt.Printf("%s  %s\n", u.UsedAt.Format("2006-01-02"), u.Topic)
			}

			return nil
		},
	}
}

func topicsPickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Pick and record the next topic from the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			topicLedger := ledger.New(repo, cfg.Topics.UsedLimit, log)
			topic, err := topicLedger.Pick(ctx, cfg.Topics.Catalog)
			if err != nil {
				return err
			}

			fmt.Printf("Picked topic: %s\n", topic)
			return nil
		},
	}
}

func topicsSuggestCmd() *cobra.Command {
	var expand int

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest new topics from RSS feeds and AI expansion",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			manager := source.NewManager()
			manager.Register(catalog.New(cfg.Topics, log))
			if cfg.Sources.RSS.Enabled {
				for _, src := range rss.NewMultiple(cfg.Sources.RSS, log) {
					manager.Register(src)
				}
			}

			suggestions, errs := manager.FetchAll(ctx)
			for _, err := range errs {
				log.Warn().Err(err).Msg("Suggestion source failed")
			}

			fmt.Printf("\n=== Suggestions (%d) ===\n\n", len(suggestions))
			for _, s := range suggestions {
				fmt.Printf("[%s/%s] %s\n", s.SourceType, s.SourceName, s.Title)
				if s.URL != "" {
					fmt.Printf("    %s\n", s.URL)
				}
			}

			if expand > 0 {
				limiter := ratelimit.NewDefaultLimiter()
				aiClient := ai.NewClient(cfg.Anthropic, limiter, log)

				niche := "software engineering"
				if len(cfg.Topics.Catalog) > 0 {
					niche = cfg.Topics.Catalog[0]
				}

				expanded, err := aiClient.ExpandTopics(ctx, niche, expand)
				if err != nil {
					return fmt.Errorf("failed to expand topics: %w", err)
				}

				fmt.Printf("\n=== AI Expansion (%d) ===\n\n", len(expanded))
				for _, t := range expanded {
					fmt.Printf("  - %s\n", t)
				}
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&expand, "expand", 0, "Also generate N AI topic suggestions")
	return cmd
}

// ============ DRAFTS COMMANDS ============

func draftsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Review queue commands",
	}

	cmd.AddCommand(draftsListCmd())
	cmd.AddCommand(draftsApproveCmd())
	cmd.AddCommand(draftsRejectCmd())
	return cmd
}

func draftsListCmd() *cobra.Command {
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List drafts awaiting review",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			filter := storage.DefaultDraftFilter()
			filter.Limit = limit
			if status != "" {
				s := models.DraftStatus(status)
				filter.Status = &s
			}

			drafts, err := repo.ListDrafts(ctx, filter)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Drafts (%d) ===\n\n", len(drafts))
			for _, d := range drafts {
				fmt.Printf("[%s] score %d | %s\n", d.ID, d.QualityScore, d.Title)
				fmt.Printf("    Status: %s | Created: %s\n\n", d.Status, d.CreatedAt.Format(time.RFC1123))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending, approved, rejected)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum drafts to show")

	return cmd
}

func draftsApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve [draft-id]",
		Short: "Approve a draft and schedule it for publishing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			c := buildComponents()
			result, err := c.publisher.Approve(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Draft approved: %s\n", result.Title)
			if result.PublishAt != nil {
				fmt.Printf("Publishing at: %s\n", result.PublishAt.Format(time.RFC1123))
			}
			return nil
		},
	}
}

func draftsRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject [draft-id]",
		Short: "Reject and discard a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			c := buildComponents()
			if err := c.publisher.Reject(ctx, args[0]); err != nil {
				return err
			}

			fmt.Printf("Draft %s rejected\n", args[0])
			return nil
		},
	}
}

// ============ PREDICT COMMANDS ============

func predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Engagement predictor commands",
	}

	cmd.AddCommand(predictTrainCmd())
	cmd.AddCommand(predictBestCmd())
	return cmd
}

func predictTrainCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the click predictor on stored engagement data",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			c := buildComponents()

			if refresh {
				records, err := c.collector.Refresh(ctx)
				if err != nil {
					return fmt.Errorf("failed to refresh engagement: %w", err)
				}
				fmt.Printf("Refreshed %d engagement records\n", len(records))
			}

			model, err := c.predictor.Train(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Trained Model ===\n")
			fmt.Printf("Samples:   %d\n", model.Samples)
			fmt.Printf("Slope:     %.4f\n", model.Slope)
			fmt.Printf("Intercept: %.4f\n", model.Intercept)

			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Fetch fresh engagement data before training")
	return cmd
}

func predictBestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "best",
		Short: "Show the title the predictor expects to perform best",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			c := buildComponents()
			best, err := c.predictor.BestTitle(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Predicted best title: %s\n", best)
			return nil
		},
	}
}

// ============ SCHEDULE COMMANDS ============

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Publish scheduling commands",
	}

	cmd.AddCommand(scheduleNextCmd())
	return cmd
}

func scheduleNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the next publish slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			planner := schedule.NewPlanner(cfg.Schedule.LeadDays, cfg.Schedule.PublishHour, cfg.Schedule.Location())
			next := planner.NextPublishTime(time.Now())

			fmt.Printf("Next publish slot: %s\n", next.Format(time.RFC1123))
			fmt.Printf("Local time:        %s\n", next.In(cfg.Schedule.Location()).Format(time.RFC1123))
			return nil
		},
	}
}

// ============ REVIEW COMMANDS ============

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Draft review surface commands",
	}

	cmd.AddCommand(reviewServeCmd())
	return cmd
}

func reviewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the draft review HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c := buildComponents()
			server := review.NewServer(c.publisher, repo, cfg.Review, log)

			return server.ListenAndServe(ctx)
		},
	}
}
