package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/thermalreport/internal/config"
	"github.com/soltixdb/thermalreport/internal/logging"
	"github.com/soltixdb/thermalreport/internal/models"
	"github.com/soltixdb/thermalreport/internal/queue"
	"github.com/soltixdb/thermalreport/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Health(t *testing.T) {
	logger := logging.NewNop()
	cfg := config.DefaultConfig()
	cfg.Analysis.Timezone = "+02:00"

	tests := []struct {
		name       string
		publisher  queue.Publisher
		publishing bool
	}{
		{name: "publishing disabled", publisher: nil, publishing: false},
		{name: "memory publisher", publisher: queue.NewMemoryPublisher(), publishing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(logger, services.NewReportService(logger, tt.publisher, "thermal.reports"), *cfg)

			app := fiber.New()
			app.Get("/health", h.Health)

			resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)

			var health models.HealthResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))

			assert.Equal(t, "healthy", health.Status)
			assert.Equal(t, Version, health.Version)
			assert.NotEmpty(t, health.Timestamp)
			assert.Equal(t, 30.0, health.Analysis.Threshold)
			assert.Equal(t, "2h0m0s", health.Analysis.Window)
			assert.Equal(t, "30m0s", health.Analysis.MaxGap)
			assert.Equal(t, "+02:00", health.Analysis.Timezone)
			assert.Equal(t, tt.publishing, health.Publishing)
		})
	}
}

func TestHandler_NotFound(t *testing.T) {
	h := &Handler{logger: logging.NewNop()}

	app := fiber.New()
	app.Use(h.NotFound)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/reports/123", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var errResp models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "NOT_FOUND", errResp.Error.Code)
	assert.Equal(t, "/v1/reports/123", errResp.Error.Path)
}
