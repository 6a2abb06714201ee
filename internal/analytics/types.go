// Package analytics provides the canonical sensor series shared by the
// quality, summary, hotwindow and threshold analyses.
package analytics

import (
	"sort"
	"time"
)

// Sample is a single sensor reading. Humidity is nil when the source did not
// carry a usable value for this row.
type Sample struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	Humidity    *float64  `json:"humidity,omitempty"`
}

// HasHumidity reports whether the sample carries a humidity value
func (s Sample) HasHumidity() bool {
	return s.Humidity != nil
}

// Series is an ascending, duplicate-free sequence of samples.
// A zero-length Series is valid; analyses report "unavailable" on it.
type Series []Sample

// Len returns the number of samples
func (s Series) Len() int {
	return len(s)
}

// Empty reports whether the series has no samples
func (s Series) Empty() bool {
	return len(s) == 0
}

// First returns the earliest sample time
func (s Series) First() (time.Time, bool) {
	if len(s) == 0 {
		return time.Time{}, false
	}
	return s[0].Time, true
}

// Last returns the latest sample time
func (s Series) Last() (time.Time, bool) {
	if len(s) == 0 {
		return time.Time{}, false
	}
	return s[len(s)-1].Time, true
}

// Temperatures extracts the temperature values
func (s Series) Temperatures() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Temperature
	}
	return values
}

// Between returns the contiguous sub-series with from <= t < to.
// A zero from or to leaves that side unbounded.
func (s Series) Between(from, to time.Time) Series {
	lo := 0
	if !from.IsZero() {
		lo = sort.Search(len(s), func(i int) bool { return !s[i].Time.Before(from) })
	}
	hi := len(s)
	if !to.IsZero() {
		hi = sort.Search(len(s), func(i int) bool { return !s[i].Time.Before(to) })
	}
	if hi < lo {
		hi = lo
	}
	return s[lo:hi:hi]
}

// Day is the calendar-day slice of a series
type Day struct {
	Date   string // YYYY-MM-DD in the split location
	Series Series
}

// SplitByDay groups a series into calendar days of loc, in ascending order.
// Days without samples are not emitted.
func SplitByDay(s Series, loc *time.Location) []Day {
	if loc == nil {
		loc = time.UTC
	}

	var days []Day
	start := 0
	for i := 1; i <= len(s); i++ {
		if i < len(s) && sameDay(s[start].Time, s[i].Time, loc) {
			continue
		}
		if start < i {
			days = append(days, Day{
				Date:   s[start].Time.In(loc).Format("2006-01-02"),
				Series: s[start:i:i],
			})
		}
		start = i
	}
	return days
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
