package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/octobees/place-finder/internal/logger"
)

// Logging writes one structured line per request and stores a request
// scoped logger in the request context.
func Logging(base *zap.Logger) echo.MiddlewareFunc {
	base = logger.OrNop(base).Named("http")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			rid := RequestIDFromContext(c)
			scoped := base.With(zap.String("request_id", rid))
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), scoped)))
			c.Set(ContextKeyLogger, scoped)

			err := next(c)
			latency := time.Since(start)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			level := zapcore.InfoLevel
			switch {
			case status >= 500:
				level = zapcore.ErrorLevel
			case status >= 400:
				level = zapcore.WarnLevel
			}
			if ce := scoped.Check(level, "request completed"); ce != nil {
				ce.Write(
					zap.String("method", req.Method),
					zap.String("path", req.URL.Path),
					zap.String("route", c.Path()),
					zap.Int("status", status),
					zap.Duration("latency", latency),
					zap.String("remote_ip", c.RealIP()),
				)
			}
			return err
		}
	}
}

// LoggerFromContext returns the request scoped logger, or fallback.
func LoggerFromContext(c echo.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := c.Get(ContextKeyLogger).(*zap.Logger); ok && l != nil {
		return l
	}
	return logger.OrNop(fallback)
}
