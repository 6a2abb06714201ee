package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/soltixdb/thermalreport/internal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cols = Columns{Timestamp: "timestamp", Temperature: "temp_c", Humidity: "hum_pct"}

func TestNormalize_Basic(t *testing.T) {
	table := Table{
		Header: []string{"timestamp", "temp_c", "hum_pct"},
		Rows: [][]string{
			{"2024-07-01 00:10:00", "21,5", "40"},
			{"2024-07-01 00:00:00", "20.0", ""},
			{"2024-07-01T00:20:00Z", "22", "45,5"},
		},
	}

	res, err := Normalize(table, cols)
	require.NoError(t, err)
	require.Equal(t, 3, res.Series.Len())
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, 0, res.Dropped)

	assert.Equal(t, []float64{20, 21.5, 22}, res.Series.Temperatures())
	assert.Nil(t, res.Series[0].Humidity)
	require.NotNil(t, res.Series[1].Humidity)
	assert.Equal(t, 40.0, *res.Series[1].Humidity)
	assert.Equal(t, 45.5, *res.Series[2].Humidity)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), res.Series[0].Time)
}

func TestNormalize_DropsUnparseableRows(t *testing.T) {
	table := Table{
		Header: []string{"timestamp", "temp_c", "hum_pct"},
		Rows: [][]string{
			{"2024-07-01 00:00:00", "20", "40"},
			{"not-a-date", "21", "40"},
			{"2024-07-01 00:20:00", "", "40"},
			{"2024-07-01 00:30:00", "hot", "40"},
			{"2024-07-01 00:40:00", "23", "wet"},
			{"2024-07-01 00:50:00"},
		},
	}

	res, err := Normalize(table, cols)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Rows)
	assert.Equal(t, 4, res.Dropped)
	require.Len(t, res.RowErrors, 4)
	assert.Equal(t, 2, res.RowErrors[0].Row)
	assert.Equal(t, "timestamp", res.RowErrors[0].Column)
	assert.Equal(t, "temp_c", res.RowErrors[1].Column)

	require.Equal(t, 2, res.Series.Len())
	assert.Nil(t, res.Series[1].Humidity, "unparseable humidity keeps the row")
}

func TestNormalize_SchemaError(t *testing.T) {
	table := Table{Header: []string{"time", "hum_pct"}, Rows: [][]string{{"2024-07-01", "40"}}}

	res, err := Normalize(table, cols)
	assert.Nil(t, res)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"timestamp", "temp_c"}, schemaErr.Missing)
	assert.Contains(t, err.Error(), "temp_c")
}

func TestNormalize_MissingHumidityColumn(t *testing.T) {
	table := Table{
		Header: []string{" Timestamp ", "TEMP_C"},
		Rows:   [][]string{{"2024-07-01 00:00", "20"}},
	}

	res, err := Normalize(table, cols)
	require.NoError(t, err)
	require.Equal(t, 1, res.Series.Len())
	assert.Nil(t, res.Series[0].Humidity)
}

func TestNormalize_DuplicatesKeepFirst(t *testing.T) {
	table := Table{
		Header: []string{"timestamp", "temp_c"},
		Rows: [][]string{
			{"2024-07-01 00:10:00", "30"},
			{"2024-07-01 00:00:00", "20"},
			{"2024-07-01T00:10:00Z", "99"},
			{"2024-07-01 02:10:00+02:00", "77"},
		},
	}

	res, err := Normalize(table, cols)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Duplicates)
	assert.Equal(t, []float64{20, 30}, res.Series.Temperatures())
}

func TestNormalize_Empty(t *testing.T) {
	res, err := Normalize(Table{Header: []string{"timestamp", "temp_c"}}, cols)
	require.NoError(t, err)
	assert.True(t, res.Series.Empty())
}

func TestNormalize_Idempotent(t *testing.T) {
	table := Table{
		Header: []string{"timestamp", "temp_c", "hum_pct"},
		Rows: [][]string{
			{"2024-07-01 00:20:00.123", "22,125", "50"},
			{"2024-07-01 00:00:00", "20.1", ""},
			{"2024-07-01 00:00:00", "25", "1"},
			{"2024-07-01 00:10:00+01:00", "-3,3", "60,75"},
		},
	}

	first, err := Normalize(table, cols)
	require.NoError(t, err)

	second, err := Normalize(FromSeries(first.Series), DefaultColumns())
	require.NoError(t, err)
	assert.Equal(t, first.Series, second.Series)
	assert.Equal(t, 0, second.Dropped)
	assert.Equal(t, 0, second.Duplicates)
}

func TestNormalize_RowErrorsCapped(t *testing.T) {
	table := Table{Header: []string{"timestamp", "temp_c"}}
	for i := 0; i < 250; i++ {
		table.Rows = append(table.Rows, []string{"bad", "1"})
	}

	res, err := Normalize(table, cols)
	require.NoError(t, err)
	assert.Equal(t, 250, res.Dropped)
	assert.Len(t, res.RowErrors, 100)
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 7, 1, 10, 30, 0, 0, time.UTC)
	for _, in := range []string{
		"2024-07-01T10:30:00Z",
		"2024-07-01T12:30:00+02:00",
		"2024-07-01 10:30:00",
		"2024-07-01T10:30:00",
		"2024-07-01 10:30",
	} {
		got, err := ParseTimestamp(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s -> %s", in, got)
	}

	day, err := ParseTimestamp("2024-07-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), day)

	_, err = ParseTimestamp("01/07/2024")
	assert.Error(t, err)
}

func TestParseRangeEnd(t *testing.T) {
	end, err := ParseRangeEnd("2024-07-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC), end)

	end, err = ParseRangeEnd(" 2024-07-31 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), end)

	end, err = ParseRangeEnd("2024-07-02 12:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 2, 12, 0, 0, 0, time.UTC), end)

	end, err = ParseRangeEnd("2024-07-02T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC), end)

	_, err = ParseRangeEnd("tomorrow")
	assert.Error(t, err)
}

func TestFromSeries(t *testing.T) {
	h := 40.5
	s := analytics.Series{{Time: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), Temperature: 20.25, Humidity: &h}}

	table := FromSeries(s)
	assert.Equal(t, []string{"timestamp", "temperature", "humidity"}, table.Header)
	assert.Equal(t, [][]string{{"2024-07-01T00:00:00Z", "20.25", "40.5"}}, table.Rows)
}
