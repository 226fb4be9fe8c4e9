// Package middleware provides the echo middleware stack: request context
// propagation, request logging and the JSON error handler.
package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pitchside/clover/pkg/reqcontext"
)

// Context copies request metadata onto the request context so every layer
// below can log it without touching echo.
func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := req.Context()
			ctx = reqcontext.SetRequestID(ctx, requestID)
			ctx = reqcontext.SetMethod(ctx, req.Method)
			ctx = reqcontext.SetRoute(ctx, req.URL.Path)
			ctx = reqcontext.SetRemoteIP(ctx, c.RealIP())

			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
