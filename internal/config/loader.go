package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/soltixdb/thermalreport/internal/ingest"
	"github.com/soltixdb/thermalreport/internal/report"
	"github.com/soltixdb/thermalreport/internal/utils"
	"github.com/spf13/viper"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")                  // Current directory
		v.AddConfigPath("./configs")          // Project configs directory
		v.AddConfigPath("./config")           // Alternative config directory
		v.AddConfigPath("/etc/thermalreport") // System-wide config
	}

	// Set defaults
	setDefaults(v)

	// Enable environment variable overrides (THERMAL_ANALYSIS_THRESHOLD, ...)
	v.SetEnvPrefix("THERMAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	// Server defaults
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.http_port", d.Server.HTTPPort)

	// Auth defaults
	v.SetDefault("auth.enabled", d.Auth.Enabled)
	v.SetDefault("auth.api_keys", d.Auth.APIKeys)

	// Analysis defaults
	v.SetDefault("analysis.threshold", d.Analysis.Threshold)
	v.SetDefault("analysis.window", d.Analysis.Window)
	v.SetDefault("analysis.max_gap", d.Analysis.MaxGap)
	v.SetDefault("analysis.min_ok", d.Analysis.MinOK)
	v.SetDefault("analysis.max_ok", d.Analysis.MaxOK)
	v.SetDefault("analysis.hot_window_min_samples", d.Analysis.HotWindowMinSamples)
	v.SetDefault("analysis.exclude_outliers", d.Analysis.ExcludeOutliers)
	v.SetDefault("analysis.timezone", d.Analysis.Timezone)
	v.SetDefault("analysis.title", d.Analysis.Title)
	v.SetDefault("analysis.disclaimer", d.Analysis.Disclaimer)

	// Column defaults
	v.SetDefault("columns.timestamp", d.Columns.Timestamp)
	v.SetDefault("columns.temperature", d.Columns.Temperature)
	v.SetDefault("columns.humidity", d.Columns.Humidity)

	// ThingSpeak defaults
	v.SetDefault("thingspeak.base_url", d.ThingSpeak.BaseURL)
	v.SetDefault("thingspeak.channel_id", d.ThingSpeak.ChannelID)
	v.SetDefault("thingspeak.read_api_key", d.ThingSpeak.ReadAPIKey)
	v.SetDefault("thingspeak.field_temp", d.ThingSpeak.FieldTemp)
	v.SetDefault("thingspeak.field_hum", d.ThingSpeak.FieldHum)
	v.SetDefault("thingspeak.results", d.ThingSpeak.Results)
	v.SetDefault("thingspeak.timeout", d.ThingSpeak.Timeout)

	// Queue defaults
	v.SetDefault("queue.type", d.Queue.Type)
	v.SetDefault("queue.url", d.Queue.URL)
	v.SetDefault("queue.subject", d.Queue.Subject)
	v.SetDefault("queue.redis_stream", d.Queue.RedisStream)
	v.SetDefault("queue.redis_max_len", d.Queue.RedisMaxLen)

	// Logging defaults
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
	v.SetDefault("logging.time_format", d.Logging.TimeFormat)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		// Return default configuration
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			HTTPPort: 5580,
		},
		Analysis: AnalysisConfig{
			Threshold:           utils.DefaultThreshold,
			Window:              utils.DefaultHotWindow,
			MaxGap:              utils.DefaultMaxGap,
			MinOK:               utils.DefaultMinOK,
			MaxOK:               utils.DefaultMaxOK,
			HotWindowMinSamples: 1,
			ExcludeOutliers:     true,
			Timezone:            "UTC",
			Title:               report.DefaultTitle,
			Disclaimer:          report.DefaultDisclaimer,
		},
		Columns: ingest.Columns{
			Timestamp:   "timestamp",
			Temperature: "temp_c",
			Humidity:    "hum_pct",
		},
		ThingSpeak: ThingSpeakConfig{
			BaseURL:   ingest.DefaultThingSpeakURL,
			FieldTemp: 1,
			FieldHum:  2,
			Results:   8000,
			Timeout:   utils.SourceFetchTimeout,
		},
		Queue: QueueConfig{
			Type:        string(utils.QueueTypeNone),
			Subject:     "thermal.reports",
			RedisStream: "thermal",
			RedisMaxLen: 10000,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
			TimeFormat: time.RFC3339,
		},
	}
}
