package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seriesAt(base time.Time, step time.Duration, temps ...float64) Series {
	s := make(Series, len(temps))
	for i, v := range temps {
		s[i] = Sample{Time: base.Add(time.Duration(i) * step), Temperature: v}
	}
	return s
}

func TestSeries_Between(t *testing.T) {
	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	s := seriesAt(base, time.Hour, 1, 2, 3, 4, 5)

	sub := s.Between(base.Add(time.Hour), base.Add(3*time.Hour))
	assert.Equal(t, []float64{2, 3}, sub.Temperatures())

	assert.Equal(t, 5, s.Between(time.Time{}, time.Time{}).Len())
	assert.Equal(t, []float64{4, 5}, s.Between(base.Add(3*time.Hour), time.Time{}).Temperatures())
	assert.True(t, s.Between(base.Add(10*time.Hour), base.Add(time.Hour)).Empty())
}

func TestSeries_FirstLast(t *testing.T) {
	var empty Series
	_, ok := empty.First()
	assert.False(t, ok)
	_, ok = empty.Last()
	assert.False(t, ok)

	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	s := seriesAt(base, time.Minute, 1, 2)
	first, _ := s.First()
	last, _ := s.Last()
	assert.Equal(t, base, first)
	assert.Equal(t, base.Add(time.Minute), last)
}

func TestSplitByDay(t *testing.T) {
	base := time.Date(2024, 7, 1, 20, 0, 0, 0, time.UTC)
	s := seriesAt(base, 2*time.Hour, 10, 11, 12, 13, 14)

	days := SplitByDay(s, time.UTC)
	require.Len(t, days, 2)
	assert.Equal(t, "2024-07-01", days[0].Date)
	assert.Equal(t, []float64{10, 11}, days[0].Series.Temperatures())
	assert.Equal(t, "2024-07-02", days[1].Date)
	assert.Equal(t, []float64{12, 13, 14}, days[1].Series.Temperatures())
}

func TestSplitByDay_Location(t *testing.T) {
	base := time.Date(2024, 7, 1, 20, 0, 0, 0, time.UTC)
	s := seriesAt(base, 2*time.Hour, 10, 11, 12)

	// +05:00 moves 20:00 UTC to 01:00 the next day
	loc := time.FixedZone("+05:00", 5*3600)
	days := SplitByDay(s, loc)
	require.Len(t, days, 1)
	assert.Equal(t, "2024-07-02", days[0].Date)
	assert.Equal(t, 3, days[0].Series.Len())
}

func TestSplitByDay_Empty(t *testing.T) {
	assert.Empty(t, SplitByDay(nil, nil))
}
