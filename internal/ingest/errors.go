package ingest

import (
	"fmt"
	"strings"
)

// SchemaError is returned when a required column is absent from the source.
// It is fatal to normalization: no partial series is produced.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ParseError describes a single dropped row. It never aborts normalization;
// the row is skipped and the error is kept on the Result for diagnostics.
type ParseError struct {
	Row    int    `json:"row"` // 1-based data row index, header excluded
	Column string `json:"column"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: column %q value %q: %s", e.Row, e.Column, e.Value, e.Reason)
}
