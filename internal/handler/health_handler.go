package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/place-finder/internal/dto"
)

// ReadinessProbe reports whether a dependency is reachable.
type ReadinessProbe interface {
	Ready(ctx context.Context) bool
}

// Health reports liveness. The cache is probed when given, but an
// unreachable cache never fails the check.
func Health(cache ReadinessProbe, now func() time.Time) echo.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(c echo.Context) error {
		resp := dto.HealthResponse{
			Status:    "ok",
			Timestamp: now().UTC().Format(time.RFC3339),
		}
		if cache != nil {
			resp.Cache = "down"
			if cache.Ready(c.Request().Context()) {
				resp.Cache = "up"
			}
		}
		return c.JSON(http.StatusOK, resp)
	}
}
