// Package ingest turns raw tabular sources into the canonical analytics.Series.
package ingest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/soltixdb/thermalreport/internal/analytics"
	"github.com/soltixdb/thermalreport/internal/utils"
)

// Table is a raw tabular source: a header row and string cells.
// Short rows are treated as having empty trailing cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Columns names the source columns holding each field. Humidity is optional.
type Columns struct {
	Timestamp   string `mapstructure:"timestamp" json:"timestamp"`
	Temperature string `mapstructure:"temperature" json:"temperature"`
	Humidity    string `mapstructure:"humidity" json:"humidity"`
}

// DefaultColumns matches the header FromSeries writes
func DefaultColumns() Columns {
	return Columns{
		Timestamp:   "timestamp",
		Temperature: "temperature",
		Humidity:    "humidity",
	}
}

// Result is the outcome of a normalization call
type Result struct {
	Series     analytics.Series
	Rows       int          // data rows read
	Dropped    int          // rows dropped for unparseable timestamp or temperature
	Duplicates int          // rows collapsed onto an earlier sample with the same timestamp
	RowErrors  []ParseError // first utils.MaxRowErrors parse failures
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	dateLayout,
}

const dateLayout = "2006-01-02"

// ParseTimestamp parses the supported timestamp layouts. Values without a
// zone are read as UTC; zoned values are converted to UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ParseRangeEnd parses the exclusive end of a report range. A bare date
// covers that whole day, so "2024-07-02" ends at 2024-07-03T00:00:00Z.
func ParseRangeEnd(s string) (time.Time, error) {
	t, err := ParseTimestamp(s)
	if err != nil {
		return t, err
	}
	if _, dateErr := time.Parse(dateLayout, strings.TrimSpace(s)); dateErr == nil {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}

// Normalize validates and converts t into an ascending, duplicate-free series.
//
// Rows with an unparseable timestamp or temperature are dropped; an
// unparseable or empty humidity only clears that sample's humidity. Rows are
// stable-sorted by time and, for equal timestamps, the first row in input
// order is kept.
func Normalize(t Table, cols Columns) (*Result, error) {
	tsIdx := columnIndex(t.Header, cols.Timestamp)
	tempIdx := columnIndex(t.Header, cols.Temperature)

	var missing []string
	if tsIdx < 0 {
		missing = append(missing, cols.Timestamp)
	}
	if tempIdx < 0 {
		missing = append(missing, cols.Temperature)
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	humIdx := -1
	if cols.Humidity != "" {
		humIdx = columnIndex(t.Header, cols.Humidity)
	}

	res := &Result{Rows: len(t.Rows)}
	series := make(analytics.Series, 0, len(t.Rows))

	for i, row := range t.Rows {
		rawTS := cell(row, tsIdx)
		ts, err := ParseTimestamp(rawTS)
		if err != nil {
			res.drop(ParseError{Row: i + 1, Column: cols.Timestamp, Value: rawTS, Reason: err.Error()})
			continue
		}

		rawTemp := cell(row, tempIdx)
		temp, err := utils.ParseDecimal(rawTemp)
		if err != nil {
			res.drop(ParseError{Row: i + 1, Column: cols.Temperature, Value: rawTemp, Reason: err.Error()})
			continue
		}

		sample := analytics.Sample{Time: ts, Temperature: temp}
		if humIdx >= 0 {
			if h, err := utils.ParseDecimal(cell(row, humIdx)); err == nil {
				sample.Humidity = &h
			}
		}
		series = append(series, sample)
	}

	sort.SliceStable(series, func(a, b int) bool {
		return series[a].Time.Before(series[b].Time)
	})

	deduped := series[:0]
	for i, s := range series {
		if i > 0 && s.Time.Equal(deduped[len(deduped)-1].Time) {
			res.Duplicates++
			continue
		}
		deduped = append(deduped, s)
	}
	res.Series = deduped

	return res, nil
}

func (r *Result) drop(pe ParseError) {
	r.Dropped++
	if len(r.RowErrors) < utils.MaxRowErrors {
		r.RowErrors = append(r.RowErrors, pe)
	}
}

// FromSeries renders a series back into a Table using DefaultColumns.
// Normalize(FromSeries(s), DefaultColumns()) returns s unchanged.
func FromSeries(s analytics.Series) Table {
	cols := DefaultColumns()
	t := Table{
		Header: []string{cols.Timestamp, cols.Temperature, cols.Humidity},
		Rows:   make([][]string, len(s)),
	}
	for i, p := range s {
		hum := ""
		if p.HasHumidity() {
			hum = strconv.FormatFloat(*p.Humidity, 'g', -1, 64)
		}
		t.Rows[i] = []string{
			p.Time.UTC().Format(time.RFC3339Nano),
			strconv.FormatFloat(p.Temperature, 'g', -1, 64),
			hum,
		}
	}
	return t
}

func columnIndex(header []string, name string) int {
	if name == "" {
		return -1
	}
	for i, h := range header {
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		if strings.EqualFold(h, strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
