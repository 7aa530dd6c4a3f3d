package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestContext tags every request with an id, reusing the caller's
// X-Request-ID when present, and bounds the handler's user context by timeout.
func RequestContext(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDHeader, requestID)
		c.Locals("requestid", requestID)

		ctx := context.WithValue(c.UserContext(), requestIDKey{}, requestID)
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// RequestID returns the request id stored by RequestContext, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
