package config

import (
	"fmt"
	"time"

	"github.com/soltixdb/thermalreport/internal/ingest"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Columns    ingest.Columns   `mapstructure:"columns"`
	ThingSpeak ThingSpeakConfig `mapstructure:"thingspeak"`
	Queue      QueueConfig      `mapstructure:"queue"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host     string `mapstructure:"host"`      // Bind address for server (e.g., 0.0.0.0 for all interfaces)
	HTTPPort int    `mapstructure:"http_port"` // HTTP server port
}

// AnalysisConfig holds the report thresholds and presentation settings
type AnalysisConfig struct {
	Threshold           float64       `mapstructure:"threshold"`              // Alert temperature in °C
	Window              time.Duration `mapstructure:"window"`                 // Hot-window duration
	MaxGap              time.Duration `mapstructure:"max_gap"`                // Spacing above which a gap is reported
	MinOK               float64       `mapstructure:"min_ok"`                 // Lowest plausible reading
	MaxOK               float64       `mapstructure:"max_ok"`                 // Highest plausible reading
	HotWindowMinSamples int           `mapstructure:"hot_window_min_samples"` // Windows with fewer samples are skipped
	ExcludeOutliers     bool          `mapstructure:"exclude_outliers"`       // Analyse only samples within [min_ok, max_ok]
	Timezone            string        `mapstructure:"timezone"`               // Day split and display zone (e.g., "Europe/Madrid", "+02:00", "UTC")
	Title               string        `mapstructure:"title"`
	Disclaimer          string        `mapstructure:"disclaimer"`
}

// ThingSpeakConfig represents the optional ThingSpeak channel source
type ThingSpeakConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	ChannelID  int           `mapstructure:"channel_id"`
	ReadAPIKey string        `mapstructure:"read_api_key"`
	FieldTemp  int           `mapstructure:"field_temp"`
	FieldHum   int           `mapstructure:"field_hum"` // 0 disables humidity
	Results    int           `mapstructure:"results"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// QueueConfig represents report publishing configuration
type QueueConfig struct {
	Type     string `mapstructure:"type"`     // Queue type: none (default), memory, nats, redis, kafka
	URL      string `mapstructure:"url"`      // Queue server URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Subject  string `mapstructure:"subject"`  // Subject/topic reports are published to
	Password string `mapstructure:"password"` // Optional authentication

	// Redis-specific options
	RedisDB     int    `mapstructure:"redis_db"`      // Redis database number (default: 0)
	RedisStream string `mapstructure:"redis_stream"`  // Redis stream prefix (default: "thermal")
	RedisMaxLen int64  `mapstructure:"redis_max_len"` // Approximate per-stream cap, 0 = unbounded

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"` // Kafka broker addresses
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, UnixMs, etc
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}

	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis config: %w", err)
	}

	if c.Columns.Timestamp == "" || c.Columns.Temperature == "" {
		return fmt.Errorf("columns config: timestamp and temperature are required")
	}

	if err := c.Queue.Validate(); err != nil {
		return fmt.Errorf("queue config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	return nil
}

// Validate validates authentication configuration
func (c *AuthConfig) Validate() error {
	if c.Enabled && len(c.APIKeys) == 0 {
		return fmt.Errorf("auth.api_keys is required when auth is enabled")
	}

	return nil
}

// Validate validates analysis configuration
func (c *AnalysisConfig) Validate() error {
	if c.Window <= 0 {
		return fmt.Errorf("analysis.window must be positive")
	}

	if c.MaxGap < 0 {
		return fmt.Errorf("analysis.max_gap cannot be negative")
	}

	if c.MinOK > c.MaxOK {
		return fmt.Errorf("analysis.min_ok (%g) cannot exceed analysis.max_ok (%g)", c.MinOK, c.MaxOK)
	}

	if c.HotWindowMinSamples < 1 {
		return fmt.Errorf("analysis.hot_window_min_samples must be at least 1")
	}

	if c.Timezone != "" {
		if _, err := parseTimezone(c.Timezone); err != nil {
			return fmt.Errorf("analysis.timezone: %w", err)
		}
	}

	return nil
}

// Validate validates queue configuration
func (c *QueueConfig) Validate() error {
	switch c.Type {
	case "", "none", "memory":
		return nil
	case "nats", "redis":
		if c.URL == "" {
			return fmt.Errorf("queue.url is required for %s", c.Type)
		}
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("queue.kafka_brokers is required for kafka")
		}
	default:
		return fmt.Errorf("queue.type must be one of: none, memory, nats, redis, kafka")
	}

	if c.Subject == "" {
		return fmt.Errorf("queue.subject is required")
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
