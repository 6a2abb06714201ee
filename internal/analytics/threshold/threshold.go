// Package threshold extracts the time intervals during which temperature is
// at or above an alert threshold, and how much of the series they cover.
package threshold

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/soltixdb/thermalreport/internal/analytics"
	"github.com/soltixdb/thermalreport/internal/utils"
)

// Interval is a maximal run of samples meeting the threshold.
// End is the time of the first sample after the run, or the last sample of
// the series when the run reaches the end of data. A run made of the final
// sample alone has Start == End.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns End - Start
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Coverage summarizes the share of the series spent above threshold.
// Total is the sample count times the series cadence.
type Coverage struct {
	Cadence time.Duration
	Above   time.Duration
	Total   time.Duration
	Percent float64
}

type coverageJSON struct {
	Cadence        string  `json:"cadence"`
	CadenceMinutes float64 `json:"cadence_minutes"`
	Above          string  `json:"above"`
	AboveMinutes   float64 `json:"above_minutes"`
	Total          string  `json:"total"`
	TotalMinutes   float64 `json:"total_minutes"`
	Percent        float64 `json:"percent"`
}

// MarshalJSON writes each duration as a Go duration string plus its length
// in minutes.
func (c Coverage) MarshalJSON() ([]byte, error) {
	return json.Marshal(coverageJSON{
		Cadence:        c.Cadence.String(),
		CadenceMinutes: c.Cadence.Minutes(),
		Above:          c.Above.String(),
		AboveMinutes:   c.Above.Minutes(),
		Total:          c.Total.String(),
		TotalMinutes:   c.Total.Minutes(),
		Percent:        c.Percent,
	})
}

// UnmarshalJSON reads the form written by MarshalJSON
func (c *Coverage) UnmarshalJSON(data []byte) error {
	var raw coverageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Coverage
	var err error
	if out.Cadence, err = utils.ParseDurationField(raw.Cadence); err != nil {
		return err
	}
	if out.Above, err = utils.ParseDurationField(raw.Above); err != nil {
		return err
	}
	if out.Total, err = utils.ParseDurationField(raw.Total); err != nil {
		return err
	}
	out.Percent = raw.Percent
	*c = out
	return nil
}

// Extract returns the runs of samples with temperature >= theta, in time order
func Extract(s analytics.Series, theta float64) []Interval {
	var intervals []Interval

	inRun := false
	var start time.Time
	for _, p := range s {
		hot := p.Temperature >= theta
		switch {
		case hot && !inRun:
			start = p.Time
			inRun = true
		case !hot && inRun:
			intervals = append(intervals, Interval{Start: start, End: p.Time})
			inRun = false
		}
	}
	if inRun {
		intervals = append(intervals, Interval{Start: start, End: s[len(s)-1].Time})
	}
	return intervals
}

// Cadence returns the typical spacing of s: the median of consecutive-sample
// deltas (mean of the two middle deltas for an even count). Series with fewer
// than two samples fall back to utils.DefaultCadence.
func Cadence(s analytics.Series) time.Duration {
	if len(s) < 2 {
		return utils.DefaultCadence
	}

	deltas := make([]time.Duration, len(s)-1)
	for i := 1; i < len(s); i++ {
		deltas[i-1] = s[i].Time.Sub(s[i-1].Time)
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i] < deltas[j] })

	mid := len(deltas) / 2
	if len(deltas)%2 == 1 {
		return deltas[mid]
	}
	return (deltas[mid-1] + deltas[mid]) / 2
}

// CoverageOf computes the coverage of intervals over s using the median
// cadence policy. Percent is rounded to one decimal and clamped to [0, 100].
func CoverageOf(s analytics.Series, intervals []Interval) Coverage {
	c := Coverage{Cadence: Cadence(s)}
	for _, iv := range intervals {
		c.Above += iv.Duration()
	}
	c.Total = time.Duration(len(s)) * c.Cadence
	if c.Total <= 0 {
		return c
	}

	pct := 100 * float64(c.Above) / float64(c.Total)
	if pct > 100 {
		pct = 100
	}
	c.Percent = utils.Round1(pct)
	return c
}

// Analyze extracts intervals and their coverage in one call
func Analyze(s analytics.Series, theta float64) ([]Interval, Coverage) {
	intervals := Extract(s, theta)
	return intervals, CoverageOf(s, intervals)
}
