// Package summary computes basic statistics over a series.
package summary

import (
	"github.com/soltixdb/thermalreport/internal/analytics"
	"github.com/soltixdb/thermalreport/internal/utils"
)

// Summary holds the per-series statistics. Pointer fields are nil when the
// value is unavailable: temperatures when Count is 0, humidity when no
// sample carries one. Values are rounded to one decimal, halves away from zero.
type Summary struct {
	Count        int      `json:"n"`
	MeanTemp     *float64 `json:"temp_mean"`
	MaxTemp      *float64 `json:"temp_max"`
	MinTemp      *float64 `json:"temp_min"`
	MeanHumidity *float64 `json:"hum_mean"`
}

// Available reports whether temperature statistics were computed
func (s Summary) Available() bool {
	return s.Count > 0
}

// Summarize computes the Summary of s (a full series or any sub-range of it)
func Summarize(s analytics.Series) Summary {
	out := Summary{Count: len(s)}
	if len(s) == 0 {
		return out
	}

	sum := 0.0
	maxT, minT := s[0].Temperature, s[0].Temperature
	humSum := 0.0
	humCount := 0

	for _, p := range s {
		sum += p.Temperature
		if p.Temperature > maxT {
			maxT = p.Temperature
		}
		if p.Temperature < minT {
			minT = p.Temperature
		}
		if p.HasHumidity() {
			humSum += *p.Humidity
			humCount++
		}
	}

	out.MeanTemp = utils.Float64Ptr(utils.Round1(sum / float64(len(s))))
	out.MaxTemp = utils.Float64Ptr(utils.Round1(maxT))
	out.MinTemp = utils.Float64Ptr(utils.Round1(minT))
	if humCount > 0 {
		out.MeanHumidity = utils.Float64Ptr(utils.Round1(humSum / float64(humCount)))
	}
	return out
}
