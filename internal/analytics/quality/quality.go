// Package quality flags missing-sample gaps and out-of-range samples in a
// normalized series.
package quality

import (
	"encoding/json"
	"time"

	"github.com/soltixdb/thermalreport/internal/analytics"
	"github.com/soltixdb/thermalreport/internal/utils"
)

// Gap marks a spacing between consecutive samples larger than the configured
// maximum. Before is the time of the sample preceding the hole.
type Gap struct {
	Before   time.Time
	Duration time.Duration
}

type gapJSON struct {
	Before   time.Time `json:"before"`
	Duration string    `json:"duration"`
	Minutes  float64   `json:"minutes"`
}

func (g Gap) MarshalJSON() ([]byte, error) {
	return json.Marshal(gapJSON{Before: g.Before, Duration: g.Duration.String(), Minutes: g.Duration.Minutes()})
}

func (g *Gap) UnmarshalJSON(data []byte) error {
	var raw gapJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, err := utils.ParseDurationField(raw.Duration)
	if err != nil {
		return err
	}
	*g = Gap{Before: raw.Before, Duration: d}
	return nil
}

// Bounds is an inclusive plausible temperature range
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the inclusive bounds
func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Config holds the quality check parameters
type Config struct {
	MaxGap time.Duration
	Bounds Bounds
}

// Report bundles the results of both checks
type Report struct {
	Gaps       []Gap
	InRange    analytics.Series
	OutOfRange analytics.Series
}

// Check runs gap detection and outlier partitioning over s
func Check(s analytics.Series, cfg Config) Report {
	in, out := PartitionOutliers(s, cfg.Bounds)
	return Report{
		Gaps:       DetectGaps(s, cfg.MaxGap),
		InRange:    in,
		OutOfRange: out,
	}
}

// DetectGaps returns one Gap per consecutive pair whose spacing strictly
// exceeds maxGap, in time order. A non-positive maxGap disables detection.
func DetectGaps(s analytics.Series, maxGap time.Duration) []Gap {
	if maxGap <= 0 || len(s) < 2 {
		return nil
	}

	var gaps []Gap
	for i := 1; i < len(s); i++ {
		delta := s[i].Time.Sub(s[i-1].Time)
		if delta > maxGap {
			gaps = append(gaps, Gap{Before: s[i-1].Time, Duration: delta})
		}
	}
	return gaps
}

// PartitionOutliers splits s into samples inside and outside b.
// Both outputs keep input order; together they cover s exactly once.
func PartitionOutliers(s analytics.Series, b Bounds) (inRange, outOfRange analytics.Series) {
	inRange = make(analytics.Series, 0, len(s))
	for _, sample := range s {
		if b.Contains(sample.Temperature) {
			inRange = append(inRange, sample)
		} else {
			outOfRange = append(outOfRange, sample)
		}
	}
	return inRange, outOfRange
}
