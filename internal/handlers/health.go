package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/thermalreport/internal/models"
)

// Health handles health check requests
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
		Analysis: models.AnalysisStatus{
			Threshold: h.analysis.Threshold,
			Window:    h.analysis.Window.String(),
			MaxGap:    h.analysis.MaxGap.String(),
			Timezone:  h.analysis.Location().String(),
		},
		Publishing: h.reportService != nil && h.reportService.Publishing(),
	})
}

// NotFound handles 404 errors
func (h *Handler) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "NOT_FOUND",
			Message: "Route not found",
			Path:    c.Path(),
		},
	})
}
