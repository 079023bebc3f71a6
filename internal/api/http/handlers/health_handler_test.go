package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	healthy bool
}

func (s stubGateway) Healthy() bool          { return s.healthy }
func (s stubGateway) Latency() time.Duration { return 42 * time.Millisecond }

func newHealthApp(gateway GatewayProbe) *fiber.App {
	app := fiber.New()
	h := NewHealthHandler("ticket-bot", "dev", nil, nil, gateway)
	app.Get("/health/live", h.Live)
	app.Get("/health/ready", h.Ready)
	return app
}

func TestLiveAlwaysResponds(t *testing.T) {
	app := newHealthApp(stubGateway{healthy: false})

	resp, err := app.Test(httptest.NewRequest("GET", "/health/live", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "alive", body["status"])
	assert.Equal(t, "ticket-bot", body["service"])
}

func TestReadyReportsEveryDependency(t *testing.T) {
	// Stores are unreachable and the gateway is connected; readiness must
	// fail while still naming each dependency's state.
	app := newHealthApp(stubGateway{healthy: true})

	resp, err := app.Test(httptest.NewRequest("GET", "/health/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", body.Error.Code)
	assert.Contains(t, body.Error.Details, "postgres")
	assert.Contains(t, body.Error.Details, "redis")
	assert.Equal(t, "ok (heartbeat 42ms)", body.Error.Details["discord"])
}

func TestReadyReportsDisconnectedGateway(t *testing.T) {
	app := newHealthApp(stubGateway{healthy: false})

	resp, err := app.Test(httptest.NewRequest("GET", "/health/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "gateway not connected")
}
