package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// LoadSQL runs query against db and returns the result set as a Table.
// Column names come from the query; NULL cells become empty strings.
func LoadSQL(ctx context.Context, db *sql.DB, query string, args ...any) (Table, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return Table{}, fmt.Errorf("failed to query readings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	header, err := rows.Columns()
	if err != nil {
		return Table{}, fmt.Errorf("failed to read columns: %w", err)
	}

	t := Table{Header: header}
	values := make([]any, len(header))
	ptrs := make([]any, len(header))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return Table{}, fmt.Errorf("failed to scan reading: %w", err)
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = sqlString(v)
		}
		t.Rows = append(t.Rows, record)
	}
	if err := rows.Err(); err != nil {
		return Table{}, fmt.Errorf("failed to iterate readings: %w", err)
	}
	return t, nil
}

func sqlString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(val)
	}
}
