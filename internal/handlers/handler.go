package handlers

import (
	"github.com/soltixdb/thermalreport/internal/config"
	"github.com/soltixdb/thermalreport/internal/ingest"
	"github.com/soltixdb/thermalreport/internal/logging"
	"github.com/soltixdb/thermalreport/internal/services"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// Handler contains all HTTP handlers
type Handler struct {
	logger        *logging.Logger
	reportService *services.ReportService
	analysis      config.AnalysisConfig
	columns       ingest.Columns
}

// New creates a new handler instance
func New(logger *logging.Logger, reportService *services.ReportService, cfg config.Config) *Handler {
	return &Handler{
		logger:        logger,
		reportService: reportService,
		analysis:      cfg.Analysis,
		columns:       cfg.Columns,
	}
}
