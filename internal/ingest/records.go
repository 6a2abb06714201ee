package ingest

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/soltixdb/thermalreport/internal/utils"
)

// FromRecords builds a Table from decoded JSON objects, keeping only the
// configured columns. Absent keys and nulls become empty cells; a column no
// record carries is left out of the header so Normalize can report it.
func FromRecords(records []map[string]interface{}, cols Columns) Table {
	var header []string
	for _, name := range []string{cols.Timestamp, cols.Temperature, cols.Humidity} {
		if name == "" {
			continue
		}
		for _, rec := range records {
			if _, ok := rec[name]; ok {
				header = append(header, name)
				break
			}
		}
	}

	t := Table{Header: header, Rows: make([][]string, len(records))}
	for i, rec := range records {
		row := make([]string, len(header))
		for j, name := range header {
			row[j] = recordString(rec[name])
		}
		t.Rows[i] = row
	}
	return t
}

func recordString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	}
	// numbers of any width; NaN and infinities become empty cells
	if f, ok := utils.ToFloat64(v); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return ""
}
