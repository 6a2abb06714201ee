package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/soltixdb/thermalreport/internal/config"
)

// NewFromConfig creates a logger from configuration
func NewFromConfig(cfg config.LoggingConfig) (*Logger, error) {
	// Parse level
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	output, err := openOutput(cfg.OutputPath)
	if err != nil {
		return nil, err
	}

	timeFormat := getTimeFormat(cfg.TimeFormat)

	// Configure format
	if cfg.Format == "console" || cfg.Format == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: timeFormat,
		}
	}

	zl := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	// zerolog.TimeFieldFormat is process wide; only JSON output reads it
	if cfg.Format == "json" {
		switch strings.ToLower(cfg.TimeFormat) {
		case "unix":
			zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		case "unixms":
			zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
		default:
			zerolog.TimeFieldFormat = timeFormat
		}
	}

	return &Logger{zl: zl}, nil
}

func openOutput(path string) (io.Writer, error) {
	switch path {
	case "stdout", "":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}

	// File output - ensure parent directory exists
	logDir := filepath.Dir(path)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file, nil
}

// getTimeFormat converts string to time format
func getTimeFormat(format string) string {
	switch strings.ToLower(format) {
	case "rfc3339nano":
		return time.RFC3339Nano
	case "kitchen":
		return time.Kitchen
	case "datetime":
		return time.DateTime
	default:
		if strings.Contains(format, "2006") {
			return format
		}
		return time.RFC3339
	}
}
