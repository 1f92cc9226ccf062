package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	transport "github.com/maher4real/support-ticket-system/internal/api/http"
	"github.com/maher4real/support-ticket-system/internal/observability"
	apperrors "github.com/maher4real/support-ticket-system/pkg/util"
)

func newObservedApp(t *testing.T) (*fiber.App, *observer.ObservedLogs, *observability.Metrics) {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	metrics := observability.NewMetrics()
	app := fiber.New()
	transport.RegisterMiddlewares(app, zap.New(core), metrics, time.Second)
	return app, logs, metrics
}

func decodeErrorEnvelope(t *testing.T, resp *http.Response) (code, message string) {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error.Code, body.Error.Message
}

func TestRequestLoggerSeesConvertedStatus(t *testing.T) {
	app, logs, metrics := newObservedApp(t)
	app.Get("/tickets/42", func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("ticket", nil)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/tickets/42", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(http.StatusNotFound), entries[0].ContextMap()["status"])
	assert.Equal(t, int64(1), metrics.RequestCount("/tickets/42", http.MethodGet, http.StatusNotFound))
	assert.Zero(t, metrics.RequestCount("/tickets/42", http.MethodGet, http.StatusOK))
}

func TestUnknownRouteReturnsNotFoundEnvelope(t *testing.T) {
	app, _, _ := newObservedApp(t)
	app.Get("/tickets", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	code, _ := decodeErrorEnvelope(t, resp)
	assert.Equal(t, "NOT_FOUND", code)
}

func TestWrongMethodReturnsMethodNotAllowed(t *testing.T) {
	app, _, _ := newObservedApp(t)
	app.Get("/tickets", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/tickets", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	code, _ := decodeErrorEnvelope(t, resp)
	assert.Equal(t, "METHOD_NOT_ALLOWED", code)
}
