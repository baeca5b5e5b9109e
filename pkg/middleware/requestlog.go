package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"catering/pkg/logger"
)

func RequestLog(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			req := c.Request()
			log.Debug("http",
				"method", req.Method,
				"path", req.URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"admin", AdminID(c),
			)
			return err
		}
	}
}
