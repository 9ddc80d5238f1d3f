// Package app assembles the place finder components from configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/octobees/place-finder/internal/cache"
	"github.com/octobees/place-finder/internal/config"
	"github.com/octobees/place-finder/internal/handler"
	"github.com/octobees/place-finder/internal/lexicon"
	"github.com/octobees/place-finder/internal/llm"
	middlewarepkg "github.com/octobees/place-finder/internal/middleware"
	"github.com/octobees/place-finder/internal/places"
	"github.com/octobees/place-finder/internal/router"
	"github.com/octobees/place-finder/internal/service"
	"github.com/octobees/place-finder/internal/telemetry"
)

const janitorInterval = 10 * time.Minute

// App holds the wired services.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Cache    *cache.Cache
	Query    *service.QueryService
	Places   *service.PlaceService
	Recorder *telemetry.Recorder

	shutdownTelemetry func(context.Context) error
}

// New builds every component. Only configuration problems fail here;
// unreachable backends surface per request.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	lex, err := lexicon.LoadFile(cfg.LexiconFile)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}

	gen, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("configure llm: %w", err)
	}

	provider, err := places.NewGoogleProvider(cfg.Maps, logger)
	if err != nil {
		return nil, fmt.Errorf("configure places provider: %w", err)
	}

	c, err := cache.FromConfig(cfg.Cache, logger)
	if err != nil {
		return nil, fmt.Errorf("configure cache: %w", err)
	}

	recorder, shutdown, err := telemetry.Init(ctx, cfg.ServiceName, cfg.MetricsEndpoint, logger)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	extractor := service.NewExtractor(gen, lex, service.ExtractorOptions{
		Timeout:   cfg.LLM.ExtractTimeout,
		MaxTokens: cfg.LLM.ExtractMaxTokens,
	}, logger)
	narrator := service.NewNarrator(gen, service.NarratorOptions{
		Timeout:     cfg.LLM.Timeout,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	}, logger)

	logger.Info("components configured",
		zap.String("llm", gen.Name()),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.Bool("metrics_export", cfg.MetricsEndpoint != ""),
	)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Cache:    c,
		Recorder: recorder,
		Query: service.NewQueryService(extractor, provider, narrator, c, logger, service.QueryOptions{
			CacheTTL: cfg.Cache.TTL,
			Recorder: recorder,
		}),
		Places: service.NewPlaceService(provider, c, logger, service.PlaceOptions{
			DetailsTTL: cfg.Cache.PlaceTTL,
			Recorder:   recorder,
			Lexicon:    lex,
		}),
		shutdownTelemetry: shutdown,
	}, nil
}

// HTTPServer builds the echo instance with middleware and routes.
func (a *App) HTTPServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := middlewarepkg.NewHTTPMetrics(reg)

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(a.Logger))
	e.Use(httpMetrics.Middleware(router.MetricsPath))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.BodyLimit("64K"))

	var probe handler.ReadinessProbe
	var counter middlewarepkg.Counter
	if a.Cache != nil {
		probe = a.Cache
		counter = a.Cache
	}

	router.Register(e, a.Config, router.Deps{Counter: counter, Gatherer: reg}, router.Handlers{
		Query:  handler.NewQueryHandler(a.Query, a.Config.Development(), a.Logger),
		Places: handler.NewPlacesHandler(a.Places),
		Health: handler.Health(probe, nil),
	})
	return e
}

// RunBackground starts maintenance loops until ctx is done.
func (a *App) RunBackground(ctx context.Context) {
	if a.Cache != nil && a.Config.Cache.Driver == "postgres" {
		go a.Cache.RunJanitor(ctx, janitorInterval)
	}
}

// Close flushes telemetry and releases the cache connection.
func (a *App) Close(ctx context.Context) error {
	var firstErr error
	if a.shutdownTelemetry != nil {
		if err := a.shutdownTelemetry(ctx); err != nil {
			firstErr = err
		}
	}
	if err := a.Cache.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
