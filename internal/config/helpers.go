package config

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"time"

	"github.com/soltixdb/thermalreport/internal/analytics/quality"
	"github.com/soltixdb/thermalreport/internal/ingest"
)

var offsetPattern = regexp.MustCompile(`^([+-])(\d{2}):(\d{2})$`)

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Logging.Level == "debug" && c.Logging.Format == "console"
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.HTTPPort))
}

// Location returns the configured analysis timezone
// Returns UTC if not configured or invalid
// Supports formats:
//   - IANA timezone names: "Europe/Madrid", "America/New_York", "UTC"
//   - Offset format: "+02:00", "-05:00", "+00:00"
func (c *AnalysisConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}

	loc, err := parseTimezone(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Quality returns the data-quality settings derived from the analysis config
func (c *AnalysisConfig) Quality() quality.Config {
	return quality.Config{
		MaxGap: c.MaxGap,
		Bounds: quality.Bounds{Min: c.MinOK, Max: c.MaxOK},
	}
}

// FeedRequest builds a ThingSpeak feed request from the channel config
func (c *ThingSpeakConfig) FeedRequest() ingest.FeedRequest {
	return ingest.FeedRequest{
		ChannelID:  c.ChannelID,
		ReadAPIKey: c.ReadAPIKey,
		FieldTemp:  c.FieldTemp,
		FieldHum:   c.FieldHum,
		Results:    c.Results,
	}
}

func parseTimezone(name string) (*time.Location, error) {
	// Try parsing as IANA timezone name first
	loc, err := time.LoadLocation(name)
	if err == nil {
		return loc, nil
	}

	return parseOffsetTimezone(name)
}

// parseOffsetTimezone parses timezone offset format like "+09:00", "-05:00"
func parseOffsetTimezone(offset string) (*time.Location, error) {
	matches := offsetPattern.FindStringSubmatch(offset)
	if len(matches) != 4 {
		return nil, fmt.Errorf("invalid offset format: %s", offset)
	}

	sign := 1
	if matches[1] == "-" {
		sign = -1
	}

	hours, err := strconv.Atoi(matches[2])
	if err != nil {
		return nil, fmt.Errorf("invalid hours: %s", matches[2])
	}

	minutes, err := strconv.Atoi(matches[3])
	if err != nil {
		return nil, fmt.Errorf("invalid minutes: %s", matches[3])
	}

	offsetSeconds := sign * (hours*3600 + minutes*60)
	return time.FixedZone(offset, offsetSeconds), nil
}
