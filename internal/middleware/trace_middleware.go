package middleware

import (
	"veginReco/business/recommend"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TraceID reuses an incoming X-Request-Id or mints one, echoes it on the
// response and stores it in the request context for the pipeline logs.
func TraceID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)

			ctx := recommend.WithTraceID(req.Context(), id)
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
