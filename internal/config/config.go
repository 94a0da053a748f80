package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the campushub backend.
// Environment variables are automatically parsed from the CAMPUSHUB_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Document store
	MongoURI      string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string        `envconfig:"MONGO_DATABASE" default:"campushub"`
	StoreTimeout  time.Duration `envconfig:"STORE_TIMEOUT" default:"10s"`

	// Media host (artifact store)
	MediaHostURL     string        `envconfig:"MEDIA_HOST_URL" default:""`
	MediaHostAPIKey  string        `envconfig:"MEDIA_HOST_API_KEY" default:""`
	MediaRootFolder  string        `envconfig:"MEDIA_ROOT_FOLDER" default:"campushub/assets"`
	MediaHostTimeout time.Duration `envconfig:"MEDIA_HOST_TIMEOUT" default:"60s"`

	// SMTP / notifications
	SMTPHost      string        `envconfig:"SMTP_HOST" default:""`
	SMTPPort      int           `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername  string        `envconfig:"SMTP_USERNAME" default:""`
	SMTPPassword  string        `envconfig:"SMTP_PASSWORD" default:""`
	SenderAddress string        `envconfig:"SENDER_ADDRESS" default:"no-reply@campushub.local"`
	OperatorEmail string        `envconfig:"OPERATOR_EMAIL" default:""`
	NotifyBatch   int           `envconfig:"NOTIFY_BATCH" default:"50"`
	NotifyPoll    time.Duration `envconfig:"NOTIFY_POLL" default:"2s"`

	// YouTube extraction
	YTDLPath    string        `envconfig:"YTDL_PATH" default:"yt-dlp"`
	YTDLBitrate string        `envconfig:"YTDL_BITRATE" default:"192K"`
	YTDLTimeout time.Duration `envconfig:"YTDL_TIMEOUT" default:"5m"`
	ScratchDir  string        `envconfig:"SCRATCH_DIR" default:""`

	// Display timezone for timestamps returned to clients.
	// Records are always written in UTC.
	DisplayTimeZone string `envconfig:"DISPLAY_TIMEZONE" default:"Asia/Kolkata"`
}

// New creates a new Config by parsing environment variables.
// Environment variables should be prefixed with CAMPUSHUB_
// Example: CAMPUSHUB_MONGO_URI, CAMPUSHUB_HTTP_PORT
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("CAMPUSHUB", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("mongo_database", cfg.MongoDatabase).
		Str("media_host", cfg.MediaHostURL).
		Str("display_timezone", cfg.DisplayTimeZone).
		Str("operator_email_present", func() string {
			if cfg.OperatorEmail != "" {
				return "true"
			}
			return "false"
		}()).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing.
func NewForTesting() *Config {
	return &Config{
		Environment:     EnvTesting,
		HTTPPort:        8080,
		MongoURI:        "mongodb://localhost:27017",
		MongoDatabase:   "campushub_test",
		StoreTimeout:    5 * time.Second,
		MediaRootFolder: "campushub/assets",
		SenderAddress:   "no-reply@test.local",
		OperatorEmail:   "ops@test.local",
		NotifyBatch:     10,
		NotifyPoll:      time.Second,
		YTDLPath:        "yt-dlp",
		YTDLBitrate:     "192K",
		YTDLTimeout:     time.Minute,
		DisplayTimeZone: "UTC",
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// DisplayLocation resolves DisplayTimeZone, falling back to UTC when the
// name is unknown on the host.
func (c *Config) DisplayLocation() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
