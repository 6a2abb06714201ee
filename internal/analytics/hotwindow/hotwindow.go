// Package hotwindow finds the fixed-duration trailing window with the highest
// mean temperature.
package hotwindow

import (
	"time"

	"github.com/soltixdb/thermalreport/internal/analytics"
	"github.com/soltixdb/thermalreport/internal/utils"
)

// meanEpsilon absorbs moving-sum rounding noise when comparing window means,
// so that equal windows keep the earliest one.
const meanEpsilon = 1e-9

// HotWindow is the hottest trailing window. Start is always End - duration,
// whether or not a sample exists at that instant.
type HotWindow struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	MeanTemp float64   `json:"temp_mean"`
	Samples  int       `json:"samples"`
}

// Options configures the search
type Options struct {
	// Duration of the trailing window (elapsed time, not sample count)
	Duration time.Duration

	// MinSamples is the fewest samples a window needs to be eligible (default 1)
	MinSamples int
}

// Find returns the window (t-Duration, t], t being a sample time, whose samples
// have the highest mean temperature. The earliest such t wins on ties.
// Returns nil when the series is empty, Duration is not positive, or no
// window reaches MinSamples.
func Find(s analytics.Series, opts Options) *HotWindow {
	if len(s) == 0 || opts.Duration <= 0 {
		return nil
	}
	minSamples := opts.MinSamples
	if minSamples < 1 {
		minSamples = 1
	}

	var (
		best     *HotWindow
		bestMean float64
		sum      float64
		left     int
	)

	for right := range s {
		sum += s[right].Temperature
		edge := s[right].Time.Add(-opts.Duration)

		// Evict samples at or before t-W; the window is open on the left
		for left <= right && !s[left].Time.After(edge) {
			sum -= s[left].Temperature
			left++
		}

		// s[right] is always inside its own window, so count >= 1
		count := right - left + 1
		if count == 1 {
			// resync the running sum to shed accumulated drift
			sum = s[right].Temperature
		}
		if count < minSamples {
			continue
		}

		mean := sum / float64(count)
		if best == nil || mean > bestMean+meanEpsilon {
			bestMean = mean
			best = &HotWindow{
				Start:   s[right].Time.Add(-opts.Duration),
				End:     s[right].Time,
				Samples: count,
			}
		}
	}

	if best == nil {
		return nil
	}
	best.MeanTemp = utils.Round1(bestMean)
	return best
}
