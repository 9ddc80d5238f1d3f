package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/octobees/place-finder/internal/config"
	"github.com/octobees/place-finder/internal/handler"
	middlewarepkg "github.com/octobees/place-finder/internal/middleware"
)

// MetricsPath serves the Prometheus exposition.
const MetricsPath = "/metrics"

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Query  *handler.QueryHandler
	Places *handler.PlacesHandler
	Health echo.HandlerFunc
}

// Deps carries shared infrastructure for route level middleware.
type Deps struct {
	// Counter backs the per-IP query quota; nil falls back to in-process limits.
	Counter  middlewarepkg.Counter
	Gatherer prometheus.Gatherer
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, deps Deps, handlers Handlers) {
	health := handlers.Health
	if health == nil {
		health = handler.Health(nil, nil)
	}
	e.GET("/healthz", health)

	if deps.Gatherer != nil {
		e.GET(MetricsPath, echo.WrapHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := e.Group("/api")
	if handlers.Query != nil {
		api.POST("/query", handlers.Query.Query,
			middlewarepkg.Quota(deps.Counter, "query", cfg.RateLimitQuery, nil))
	}
	if handlers.Places != nil {
		api.POST("/places/nearby", handlers.Places.Nearby, middlewarepkg.RateLimiter(cfg.RateLimitNearby))
		api.GET("/places/:place_id", handlers.Places.Details)
	}

	e.RouteNotFound("/*", func(c echo.Context) error {
		return handler.ErrorWithDetail(c, http.StatusNotFound, handler.ErrorResponse{
			Message:   "route not found",
			RequestID: middlewarepkg.RequestIDFromContext(c),
		})
	})
}
