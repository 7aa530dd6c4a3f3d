package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(timeout time.Duration) *fiber.App {
	app := fiber.New()
	app.Use(RequestContext(timeout))
	app.Get("/", func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		deadline, ok := ctx.Deadline()
		return c.JSON(fiber.Map{
			"requestId":   RequestID(ctx),
			"hasDeadline": ok,
			"withinLimit": ok && time.Until(deadline) <= timeout,
		})
	})
	return app
}

func TestRequestContext_GeneratesRequestID(t *testing.T) {
	app := newTestApp(time.Second)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Header.Get(RequestIDHeader), 36)
}

func TestRequestContext_KeepsCallerRequestID(t *testing.T) {
	app := newTestApp(time.Second)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

func TestRequestContext_SetsDeadline(t *testing.T) {
	app := newTestApp(5 * time.Second)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		RequestID   string `json:"requestId"`
		HasDeadline bool   `json:"hasDeadline"`
		WithinLimit bool   `json:"withinLimit"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.RequestID)
	assert.True(t, body.HasDeadline)
	assert.True(t, body.WithinLimit)
}
