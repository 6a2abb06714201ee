package summary

import (
	"testing"
	"time"

	"github.com/soltixdb/thermalreport/internal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hum(v float64) *float64 { return &v }

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0, s.Count)
	assert.False(t, s.Available())
	assert.Nil(t, s.MeanTemp)
	assert.Nil(t, s.MaxTemp)
	assert.Nil(t, s.MinTemp)
	assert.Nil(t, s.MeanHumidity)
}

func TestSummarize_Values(t *testing.T) {
	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	series := analytics.Series{
		{Time: base, Temperature: 20.04, Humidity: hum(40)},
		{Time: base.Add(10 * time.Minute), Temperature: 25.5},
		{Time: base.Add(20 * time.Minute), Temperature: 31.51, Humidity: hum(45.25)},
	}

	s := Summarize(series)
	require.True(t, s.Available())
	assert.Equal(t, 3, s.Count)
	// (20.04 + 25.5 + 31.51) / 3 = 25.6833..
	assert.Equal(t, 25.7, *s.MeanTemp)
	assert.Equal(t, 31.5, *s.MaxTemp)
	assert.Equal(t, 20.0, *s.MinTemp)
	// humidity mean over the two present values only: 42.625
	require.NotNil(t, s.MeanHumidity)
	assert.Equal(t, 42.6, *s.MeanHumidity)
}

func TestSummarize_NoHumidity(t *testing.T) {
	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	series := analytics.Series{
		{Time: base, Temperature: 20},
		{Time: base.Add(time.Minute), Temperature: 22},
	}

	s := Summarize(series)
	assert.Equal(t, 21.0, *s.MeanTemp)
	assert.Nil(t, s.MeanHumidity, "humidity must be absent, not zero")
}

func TestSummarize_RoundingHalfAwayFromZero(t *testing.T) {
	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	series := analytics.Series{
		{Time: base, Temperature: -0.25},
		{Time: base.Add(time.Minute), Temperature: -0.25},
	}

	s := Summarize(series)
	assert.Equal(t, -0.3, *s.MeanTemp)
	assert.Equal(t, -0.3, *s.MaxTemp)
}
