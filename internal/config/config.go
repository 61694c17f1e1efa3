package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Ghost     GhostConfig     `mapstructure:"ghost"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Discord   DiscordConfig   `mapstructure:"discord"`
	Topics    TopicsConfig    `mapstructure:"topics"`
	Quality   QualityConfig   `mapstructure:"quality"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Media     MediaConfig     `mapstructure:"media"`
	Review    ReviewConfig    `mapstructure:"review"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite
	DSN    string `mapstructure:"dsn"`    // Connection string
}

// GhostConfig holds Ghost CMS API settings
type GhostConfig struct {
	AdminAPIKey    string   `mapstructure:"admin_api_key"` // "key_id:hex_secret"
	AdminAPIURL    string   `mapstructure:"admin_api_url"`
	ContentAPIKey  string   `mapstructure:"content_api_key"`
	ContentAPIURL  string   `mapstructure:"content_api_url"`
	ImageUploadURL string   `mapstructure:"image_upload_url"`
	Excerpt        string   `mapstructure:"excerpt"` // Default SEO excerpt for submitted posts
	Tags           []string `mapstructure:"tags"`    // Default tags for submitted posts
}

// AnthropicConfig holds Claude API settings
type AnthropicConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// DiscordConfig holds Discord webhook notification settings
type DiscordConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

// TopicsConfig holds the fixed topic catalog and rotation settings
type TopicsConfig struct {
	Catalog   []string `mapstructure:"catalog"`
	UsedLimit int      `mapstructure:"used_limit"` // Max retained used topics (FIFO)
}

// QualityConfig holds quality gate settings
type QualityConfig struct {
	Threshold       int    `mapstructure:"threshold"`        // Auto-publish when score >= threshold
	DefaultScore    int    `mapstructure:"default_score"`    // Neutral score on scoring failure
	LanguageToolURL string `mapstructure:"languagetool_url"` // Grammar check endpoint, empty disables
	MinContentChars int    `mapstructure:"min_content_chars"`
}

// ScheduleConfig holds publish scheduling settings
type ScheduleConfig struct {
	LeadDays     int    `mapstructure:"lead_days"`     // Minimum days before publish
	PublishHour  int    `mapstructure:"publish_hour"`  // Local hour of day for publish_at
	Timezone     string `mapstructure:"timezone"`      // IANA zone for publish-hour policy
	PipelineCron string `mapstructure:"pipeline_cron"` // Weekly pipeline trigger
}

// MediaConfig holds feature image settings
type MediaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	UnsplashAPIKey string `mapstructure:"unsplash_api_key"`
	FallbackImage  string `mapstructure:"fallback_image"` // Used when generation/upload fails
}

// ReviewConfig holds the review surface settings
type ReviewConfig struct {
	Addr string `mapstructure:"addr"`
}

// SourcesConfig holds topic suggestion source settings
type SourcesConfig struct {
	RSS RSSConfig `mapstructure:"rss"`
}

// RSSConfig holds RSS feed settings for topic suggestions
type RSSConfig struct {
	Enabled bool      `mapstructure:"enabled"`
	Feeds   []RSSFeed `mapstructure:"feeds"`
}

// RSSFeed represents a single RSS feed
type RSSFeed struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
	Output string `mapstructure:"output"` // stdout or file path
}

// Location resolves the configured timezone, falling back to local time.
func (c ScheduleConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// Load .env file if present (ignore errors if not found)
	_ = godotenv.Load()
	_ = godotenv.Load(".env.local")

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in current directory and configs folder
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")

		// Also check user's home directory
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".blog-agent"))
		}
	}

	// Environment variables
	v.SetEnvPrefix("BLOG")
	v.AutomaticEnv()

	// Explicit bindings for nested keys (Viper doesn't auto-bind underscored nested keys)
	v.BindEnv("anthropic.api_key", "BLOG_ANTHROPIC_API_KEY")
	v.BindEnv("ghost.admin_api_key", "BLOG_GHOST_ADMIN_API_KEY")
	v.BindEnv("ghost.admin_api_url", "BLOG_GHOST_ADMIN_API_URL")
	v.BindEnv("ghost.content_api_key", "BLOG_GHOST_CONTENT_API_KEY")
	v.BindEnv("ghost.content_api_url", "BLOG_GHOST_CONTENT_API_URL")
	v.BindEnv("ghost.image_upload_url", "BLOG_GHOST_IMAGE_UPLOAD_URL")
	v.BindEnv("discord.webhook_url", "BLOG_DISCORD_WEBHOOK_URL")
	v.BindEnv("database.driver", "BLOG_DATABASE_DRIVER")
	v.BindEnv("database.dsn", "BLOG_DATABASE_DSN")
	v.BindEnv("media.unsplash_api_key", "BLOG_MEDIA_UNSPLASH_API_KEY")
	v.BindEnv("quality.threshold", "BLOG_QUALITY_THRESHOLD")
	v.BindEnv("review.addr", "BLOG_REVIEW_ADDR")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./data/blog.db")

	// Ghost defaults
	v.SetDefault("ghost.excerpt", "A guide to computer literacy and how to improve your tech skills.")
	v.SetDefault("ghost.tags", []string{"tech", "AI", "blogging"})

	// Anthropic defaults
	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("anthropic.temperature", 0.7)

	// Topic rotation defaults
	v.SetDefault("topics.used_limit", 50)
	v.SetDefault("topics.catalog", []string{
		"The Importance of Digital Literacy in the Modern Age",
		"How to Stay Safe Online: Cybersecurity Tips for Beginners",
		"Mastering Computer Basics: A Guide for New Users",
		"How to Improve Your Digital Skills for Career Growth",
		"Understanding Cloud Computing and Why It Matters",
		"The Future of Work: How Digital Literacy Impacts Your Career",
		"A Beginner's Guide to Internet Safety and Privacy",
		"Top 10 Digital Tools Every Computer User Should Know",
		"The Role of Artificial Intelligence in Digital Literacy",
		"How to Protect Your Online Identity from Cyber Threats",
		"Digital Footprint Explained: How Your Online Presence Impacts Privacy and Security",
	})

	// Quality gate defaults
	v.SetDefault("quality.threshold", 80)
	v.SetDefault("quality.default_score", 50)
	v.SetDefault("quality.languagetool_url", "https://api.languagetool.org/v2/check")
	v.SetDefault("quality.min_content_chars", 100)

	// Schedule defaults
	v.SetDefault("schedule.lead_days", 3)
	v.SetDefault("schedule.publish_hour", 9)
	v.SetDefault("schedule.timezone", "")
	v.SetDefault("schedule.pipeline_cron", "0 2 * * 1") // Monday 2 AM

	// Media defaults
	v.SetDefault("media.enabled", false)
	v.SetDefault("media.fallback_image", "https://bytewhere.com/content/images/computer-literacy.jpg")

	// Review surface defaults
	v.SetDefault("review.addr", ":8090")

	// Sources defaults
	v.SetDefault("sources.rss.enabled", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stdout")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Anthropic.APIKey == "" {
		return fmt.Errorf("anthropic.api_key is required")
	}
	if c.Ghost.AdminAPIKey == "" {
		return fmt.Errorf("ghost.admin_api_key is required")
	}
	if c.Ghost.AdminAPIURL == "" {
		return fmt.Errorf("ghost.admin_api_url is required")
	}
	if len(c.Topics.Catalog) == 0 {
		return fmt.Errorf("topics.catalog must not be empty")
	}
	return nil
}
