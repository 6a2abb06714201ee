package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/thermalreport/internal/ingest"
	"github.com/soltixdb/thermalreport/internal/logging"
	"github.com/soltixdb/thermalreport/internal/models"
	"github.com/soltixdb/thermalreport/internal/services"
	"github.com/soltixdb/thermalreport/internal/utils"
)

// CreateReport handles POST /v1/reports.
// The body is a CSV table (text/csv), a snappy framed CSV
// (application/x-snappy-framed) or a JSON ReportRequest (application/json).
// Query parameters override the configured analysis settings.
func (h *Handler) CreateReport(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if len(c.Body()) == 0 {
		return badRequest(c, "INVALID_BODY", "request body is empty", nil)
	}

	table, cols, err := h.readTable(c)
	if err != nil {
		return badRequest(c, "INVALID_BODY", err.Error(), nil)
	}

	opts, err := h.analysisOptions(c)
	if err != nil {
		return badRequest(c, "INVALID_PARAMETER", err.Error(), nil)
	}

	res, err := ingest.Normalize(table, cols)
	if err != nil {
		var schemaErr *ingest.SchemaError
		if errors.As(err, &schemaErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "SCHEMA_ERROR",
					Message: schemaErr.Error(),
					Details: map[string]interface{}{"missing": schemaErr.Missing},
				},
			})
		}
		return err
	}

	rep, err := h.reportService.Build(ctx, res, opts)
	if err != nil {
		if svcErr, ok := services.AsServiceError(err); ok {
			return badRequest(c, svcErr.Code, svcErr.Message, svcErr.Details)
		}
		logging.ErrorCtx(ctx, "Failed to build report", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "REPORT_FAILED",
				Message: "Failed to build report",
			},
		})
	}

	return c.JSON(models.ReportResponse{
		RequestID: logging.RequestID(ctx),
		Report:    rep,
	})
}

// readTable decodes the request body according to its content type
func (h *Handler) readTable(c *fiber.Ctx) (ingest.Table, ingest.Columns, error) {
	contentType := strings.ToLower(string(c.Request().Header.ContentType()))
	contentType, _, _ = strings.Cut(contentType, ";")

	switch strings.TrimSpace(contentType) {
	case models.ContentTypeJSON:
		var req models.ReportRequest
		if err := c.BodyParser(&req); err != nil {
			return ingest.Table{}, ingest.Columns{}, fmt.Errorf("invalid JSON body: %w", err)
		}
		cols := h.columns
		if req.Columns != nil {
			cols = *req.Columns
		}
		return ingest.FromRecords(req.Rows, cols), cols, nil

	case models.ContentTypeSnappyCSV:
		t, err := ingest.ReadSnappyCSV(bytes.NewReader(c.Body()))
		return t, h.columns, err

	default:
		t, err := ingest.ReadCSV(bytes.NewReader(c.Body()))
		return t, h.columns, err
	}
}

// analysisOptions applies query parameter overrides to the configured settings
func (h *Handler) analysisOptions(c *fiber.Ctx) (services.AnalysisOptions, error) {
	opts := services.OptionsFromConfig(h.analysis)

	var err error
	if v := c.Query("threshold"); v != "" {
		if opts.Threshold, err = utils.ParseDecimal(v); err != nil {
			return opts, fmt.Errorf("invalid threshold %q", v)
		}
	}
	if v := c.Query("window"); v != "" {
		if opts.Window, err = time.ParseDuration(v); err != nil || opts.Window <= 0 {
			return opts, fmt.Errorf("invalid window %q", v)
		}
	}
	if v := c.Query("max_gap"); v != "" {
		if opts.Quality.MaxGap, err = time.ParseDuration(v); err != nil {
			return opts, fmt.Errorf("invalid max_gap %q", v)
		}
	}
	if v := c.Query("min_ok"); v != "" {
		if opts.Quality.Bounds.Min, err = utils.ParseDecimal(v); err != nil {
			return opts, fmt.Errorf("invalid min_ok %q", v)
		}
	}
	if v := c.Query("max_ok"); v != "" {
		if opts.Quality.Bounds.Max, err = utils.ParseDecimal(v); err != nil {
			return opts, fmt.Errorf("invalid max_ok %q", v)
		}
	}
	if v := c.Query("min_samples"); v != "" {
		if opts.MinSamples, err = strconv.Atoi(v); err != nil || opts.MinSamples < 1 {
			return opts, fmt.Errorf("invalid min_samples %q", v)
		}
	}
	if v := c.Query("from"); v != "" {
		if opts.From, err = ingest.ParseTimestamp(v); err != nil {
			return opts, fmt.Errorf("invalid from %q", v)
		}
	}
	if v := c.Query("to"); v != "" {
		if opts.To, err = ingest.ParseRangeEnd(v); err != nil {
			return opts, fmt.Errorf("invalid to %q", v)
		}
	}
	return opts, nil
}

func badRequest(c *fiber.Ctx, code, message string, details map[string]interface{}) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
