package models

// HealthResponse reports liveness and the analysis defaults in effect
type HealthResponse struct {
	Status     string         `json:"status"`
	Timestamp  string         `json:"timestamp"`
	Version    string         `json:"version"`
	Analysis   AnalysisStatus `json:"analysis"`
	Publishing bool           `json:"publishing"`
}

// AnalysisStatus echoes the configured thresholds
type AnalysisStatus struct {
	Threshold float64 `json:"threshold"`
	Window    string  `json:"window"`
	MaxGap    string  `json:"max_gap"`
	Timezone  string  `json:"timezone"`
}

// ReportResponse wraps a built report
type ReportResponse struct {
	RequestID string      `json:"request_id"`
	Report    interface{} `json:"report"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
