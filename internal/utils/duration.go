package utils

import (
	"fmt"
	"time"
)

// ParseDurationField parses a duration written by time.Duration.String.
// An empty value is a zero duration.
func ParseDurationField(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}
