package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/snappy"
	"github.com/soltixdb/thermalreport/internal/config"
	"github.com/soltixdb/thermalreport/internal/logging"
	"github.com/soltixdb/thermalreport/internal/models"
	"github.com/soltixdb/thermalreport/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioCSV = `timestamp,temp_c,hum_pct
2024-07-01 00:00:00,20,40
2024-07-01 00:10:00,20,41
2024-07-01 00:20:00,31,42
2024-07-01 00:30:00,31,43
2024-07-01 00:40:00,20,44
`

type reportBody struct {
	RequestID string             `json:"request_id"`
	Report    services.Report    `json:"report"`
	Error     models.ErrorDetail `json:"error"`
}

func setupReportApp(t *testing.T) *fiber.App {
	t.Helper()

	logger := logging.NewNop()
	cfg := config.DefaultConfig()
	h := New(logger, services.NewReportService(logger, nil, ""), *cfg)

	app := fiber.New()
	app.Use(logging.FiberMiddleware(logger))
	app.Post("/v1/reports", h.CreateReport)
	return app
}

func doReport(t *testing.T, app *fiber.App, target, contentType string, body []byte) (*http.Response, reportBody) {
	t.Helper()

	req := httptest.NewRequest("POST", target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	var out reportBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestCreateReport_CSV(t *testing.T) {
	app := setupReportApp(t)

	resp, body := doReport(t, app, "/v1/reports", models.ContentTypeCSV, []byte(scenarioCSV))

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body.RequestID)
	assert.False(t, body.Report.Empty)
	require.Len(t, body.Report.Days, 1)
	require.NotNil(t, body.Report.Overall)
	assert.Equal(t, 5, body.Report.Overall.Summary.Count)
	require.Len(t, body.Report.Overall.Intervals, 1)
	assert.Equal(t, 40.0, body.Report.Overall.Coverage.Percent)
	assert.Contains(t, body.Report.Overall.Lines, "Mean humidity: 42.0 %")
}

func TestCreateReport_ThresholdOverride(t *testing.T) {
	app := setupReportApp(t)

	resp, body := doReport(t, app, "/v1/reports?threshold=35", models.ContentTypeCSV, []byte(scenarioCSV))

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 35.0, body.Report.Threshold)
	assert.Empty(t, body.Report.Overall.Intervals)
}

func TestCreateReport_SnappyCSV(t *testing.T) {
	app := setupReportApp(t)

	var buf bytes.Buffer
	w := snappy.NewBufferedWriter(&buf)
	_, err := w.Write([]byte(scenarioCSV))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	resp, body := doReport(t, app, "/v1/reports", models.ContentTypeSnappyCSV, buf.Bytes())

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, body.Report.Overall.Summary.Count)
}

func TestCreateReport_JSONRows(t *testing.T) {
	app := setupReportApp(t)

	payload := `{"rows":[
		{"ts":"2024-07-01T00:00:00Z","t":29.5},
		{"ts":"2024-07-01T00:10:00Z","t":30.5},
		{"ts":"2024-07-01T00:20:00Z","t":"31,5"}
	],"columns":{"timestamp":"ts","temperature":"t"}}`

	resp, body := doReport(t, app, "/v1/reports", models.ContentTypeJSON, []byte(payload))

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, body.Report.Overall.Summary.Count)
	assert.Nil(t, body.Report.Overall.Summary.MeanHumidity)
	for _, line := range body.Report.Overall.Lines {
		assert.False(t, strings.Contains(line, "humidity"), line)
	}
}

func TestCreateReport_MissingTemperatureColumn(t *testing.T) {
	app := setupReportApp(t)

	resp, body := doReport(t, app, "/v1/reports", models.ContentTypeCSV, []byte("timestamp,hum_pct\n2024-07-01 00:00:00,40\n"))

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "SCHEMA_ERROR", body.Error.Code)
	assert.Equal(t, []interface{}{"temp_c"}, body.Error.Details["missing"])
}

func TestCreateReport_EmptyBody(t *testing.T) {
	app := setupReportApp(t)

	resp, body := doReport(t, app, "/v1/reports", models.ContentTypeCSV, nil)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", body.Error.Code)
}

func TestCreateReport_InvalidParameter(t *testing.T) {
	app := setupReportApp(t)

	resp, body := doReport(t, app, "/v1/reports?window=soon", models.ContentTypeCSV, []byte(scenarioCSV))

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_PARAMETER", body.Error.Code)
}

func TestCreateReport_InvalidRange(t *testing.T) {
	app := setupReportApp(t)

	resp, body := doReport(t, app, "/v1/reports?from=2024-07-02&to=2024-07-01", models.ContentTypeCSV, []byte(scenarioCSV))

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_RANGE", body.Error.Code)
}

func TestCreateReport_DateOnlyRangeIncludesEndDay(t *testing.T) {
	app := setupReportApp(t)

	resp, body := doReport(t, app, "/v1/reports?from=2024-07-01&to=2024-07-01", models.ContentTypeCSV, []byte(scenarioCSV))

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.False(t, body.Report.Empty)
	assert.Equal(t, 0, body.Report.Diagnostics.Filtered)
	assert.Equal(t, 5, body.Report.Overall.Summary.Count)
}

func TestCreateReport_AllRowsDropped(t *testing.T) {
	app := setupReportApp(t)

	resp, body := doReport(t, app, "/v1/reports", models.ContentTypeCSV, []byte("timestamp,temp_c\nnot-a-time,20\n2024-07-01 00:00:00,hot\n"))

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, body.Report.Empty)
	assert.Equal(t, services.ErrEmptySeries.Error(), body.Report.Diagnostics.Empty)
	assert.Equal(t, 2, body.Report.Diagnostics.Dropped)
	assert.Len(t, body.Report.Diagnostics.RowErrors, 2)
}
