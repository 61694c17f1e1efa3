package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
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
	"github.com/blog-agent/internal/schedule"
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
		Use:   "blog-scheduler",
		Short: "Background scheduler for the blog agent",
		Long: `Runs the weekly publish pipeline on a cron schedule.
This daemon should be run as a service for autonomous operation.`,
		RunE: runScheduler,
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScheduler(cmd *cobra.Command, args []string) error {
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

	log.Info().Msg("Starting Blog Agent Scheduler")

	// Initialize storage
	repo, err = sqlite.New(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer repo.Close()

	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Start health check server for Render
	go startHealthServer()

	runner := buildPipeline()

	// Create cron scheduler
	c := cron.New(cron.WithLogger(cronLogger{log}))

	// Schedule the weekly pipeline
	_, err = c.AddFunc(cfg.Schedule.PipelineCron, func() {
		ctx := context.Background()
		log.Info().Msg("Running scheduled pipeline")

		result := runner.Run(ctx)

		log.Info().
			Int("stages", len(result.Stages)).
			Int("failed", result.Failed).
			Dur("duration", result.Duration).
			Msg("Scheduled pipeline completed")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule pipeline job: %w", err)
	}
	log.Info().Str("cron", cfg.Schedule.PipelineCron).Msg("Pipeline job scheduled")

	// Start scheduler
	c.Start()
	log.Info().Msg("Scheduler started")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutting down scheduler")
	c.Stop()

	return nil
}

// buildPipeline wires the standard weekly pipeline from config.
func buildPipeline() *pipeline.Runner {
	limiter := ratelimit.NewDefaultLimiter()

	aiClient := ai.NewClient(cfg.Anthropic, limiter, log)
	ghostClient := ghost.NewClient(cfg.Ghost, limiter, log)
	notifier := notify.NewNotifier(cfg.Discord, limiter, log)
	collector := analytics.NewCollector(ghostClient, repo, log)
	pred := predictor.New(repo, log)
	topicLedger := ledger.New(repo, cfg.Topics.UsedLimit, log)
	planner := schedule.NewPlanner(cfg.Schedule.LeadDays, cfg.Schedule.PublishHour, cfg.Schedule.Location())

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

	var primary quality.Checker
	if cfg.Quality.LanguageToolURL != "" {
		primary = quality.NewLanguageToolChecker(cfg.Quality.LanguageToolURL, limiter, log)
	}
	gate := quality.NewGate(primary, quality.NewCorrectionChecker(aiClient, log), cfg.Quality, log)

	var images *media.Resolver
	var imageResolver publisher.ImageResolver
	var stageImages pipeline.ImageResolver
	if cfg.Media.Enabled {
		var photoSource media.PhotoSource
		if cfg.Media.UnsplashAPIKey != "" {
			photoSource = unsplash.NewClient(cfg.Media.UnsplashAPIKey, limiter, log)
		}
		images = media.NewResolver(cfg.Media, photoSource, ghostClient, log)
		imageResolver = images
		stageImages = images
	}

	pub := publisher.NewAgent(
		topicLedger,
		titles,
		aiClient,
		gate,
		planner,
		ghostClient,
		imageResolver,
		notifier,
		repo,
		cfg,
		log,
	)

	fallback := ""
	if len(cfg.Topics.Catalog) > 0 {
		fallback = cfg.Topics.Catalog[0]
	}

	return pipeline.NewRunner(pipeline.StandardStages(
		collector,
		pred,
		titles,
		stageImages,
		pub,
		fallback,
	), log)
}

// cronLogger adapts our logger for cron
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info().Msgf(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Msgf(msg, keysAndValues...)
}

// startHealthServer starts a simple HTTP server for health checks (used by Render)
func startHealthServer() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "10000"
	}

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Blog Agent Scheduler"))
	})

	log.Info().Str("port", port).Msg("Health check server starting")
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Error().Err(err).Msg("Health server failed")
	}
}
