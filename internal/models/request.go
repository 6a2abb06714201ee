package models

import "github.com/soltixdb/thermalreport/internal/ingest"

// Content types accepted by the report endpoint
const (
	ContentTypeCSV       = "text/csv"
	ContentTypeSnappyCSV = "application/x-snappy-framed"
	ContentTypeJSON      = "application/json"
)

// ReportRequest is the JSON form of a report upload. Rows are objects keyed
// by column name; Columns overrides the configured column mapping.
type ReportRequest struct {
	Rows    []map[string]interface{} `json:"rows"`
	Columns *ingest.Columns          `json:"columns,omitempty"`
}
