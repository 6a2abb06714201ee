package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/thermalreport/internal/logging"
	"github.com/soltixdb/thermalreport/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generateAPIKey generates a deterministic API key of the given length
func generateAPIKey(length int) string {
	key := make([]byte, length)
	for i := range key {
		key[i] = 'a' + byte(i%26)
	}
	return string(key)
}

func newAuthApp(keys []string, enabled bool) *fiber.App {
	app := fiber.New()
	app.Use(APIKeyAuth(logging.NewNop(), keys, enabled))
	app.Post("/v1/reports", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	return app
}

func TestValidateAPIKey(t *testing.T) {
	assert.True(t, ValidateAPIKey(generateAPIKey(32)))
	assert.True(t, ValidateAPIKey(generateAPIKey(64)))
	assert.False(t, ValidateAPIKey(generateAPIKey(31)))
	assert.False(t, ValidateAPIKey(""))
	assert.False(t, ValidateAPIKey(strings.Repeat(" ", 32)))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "abcd****", maskAPIKey("abcdefghijklmnop"))
	assert.Equal(t, "****", maskAPIKey("abcd"))
	assert.Equal(t, "****", maskAPIKey(""))
}

func TestMatchKey(t *testing.T) {
	keys := [][]byte{[]byte(generateAPIKey(32)), []byte(generateAPIKey(40))}

	assert.True(t, matchKey(keys, generateAPIKey(32)))
	assert.True(t, matchKey(keys, generateAPIKey(40)))
	assert.False(t, matchKey(keys, generateAPIKey(33)))
	assert.False(t, matchKey(nil, generateAPIKey(32)))
}

func TestAPIKeyAuth_Disabled(t *testing.T) {
	app := newAuthApp(nil, false)

	resp, err := app.Test(httptest.NewRequest("POST", "/v1/reports", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAPIKeyAuth_Headers(t *testing.T) {
	validKey := generateAPIKey(32)
	app := newAuthApp([]string{validKey}, true)

	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
	}{
		{"X-API-Key", "X-API-Key", validKey, fiber.StatusOK},
		{"Bearer token", "Authorization", "Bearer " + validKey, fiber.StatusOK},
		{"plain Authorization", "Authorization", validKey, fiber.StatusOK},
		{"missing key", "", "", fiber.StatusUnauthorized},
		{"wrong key", "X-API-Key", generateAPIKey(32) + "wrong", fiber.StatusUnauthorized},
		{"short key", "X-API-Key", "short", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/v1/reports", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == fiber.StatusUnauthorized {
				var errResp models.ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
				assert.Equal(t, "UNAUTHORIZED", errResp.Error.Code)
			}
		})
	}
}

func TestAPIKeyAuth_WeakKeysRejected(t *testing.T) {
	weakKeys := []string{"a", "short", generateAPIKey(31)}
	app := newAuthApp(weakKeys, true)

	for _, weakKey := range weakKeys {
		req := httptest.NewRequest("POST", "/v1/reports", nil)
		req.Header.Set("X-API-Key", weakKey)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "weak key %q should be rejected", maskAPIKey(weakKey))
	}
}
