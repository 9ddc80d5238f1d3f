// Package telemetry exports pipeline metrics through OpenTelemetry.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/zap"
)

const (
	meterName      = "github.com/octobees/place-finder"
	exportInterval = 15 * time.Second
)

// Recorder implements the pipeline measurement hooks on OTel instruments.
type Recorder struct {
	queries      metric.Int64Counter
	queryLatency metric.Float64Histogram
	stageLatency metric.Float64Histogram
	cacheLookups metric.Int64Counter
}

// Init installs a meter provider that pushes to endpoint over OTLP/HTTP.
// An empty endpoint yields a no-op recorder. The returned function flushes
// and stops the exporter.
func Init(ctx context.Context, serviceName, endpoint string, logger *zap.Logger) (*Recorder, func(context.Context) error, error) {
	if endpoint == "" {
		if logger != nil {
			logger.Info("OTEL_EXPORTER_OTLP_ENDPOINT not set, pipeline metrics disabled")
		}
		rec, err := NewRecorder(noop.NewMeterProvider().Meter(meterName))
		return rec, func(context.Context) error { return nil }, err
	}

	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(endpoint),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", serviceName),
	))
	if err != nil {
		return nil, nil, fmt.Errorf("build resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(exportInterval))),
	)
	otel.SetMeterProvider(mp)

	rec, err := NewRecorder(mp.Meter(meterName))
	if err != nil {
		_ = mp.Shutdown(ctx)
		return nil, nil, err
	}
	if logger != nil {
		logger.Info("pipeline metrics exported", zap.String("endpoint", endpoint))
	}
	return rec, mp.Shutdown, nil
}

// NewRecorder creates the instruments on meter.
func NewRecorder(meter metric.Meter) (*Recorder, error) {
	var (
		r   Recorder
		err error
	)
	if r.queries, err = meter.Int64Counter("placefinder.queries",
		metric.WithDescription("Resolved place queries by outcome"),
		metric.WithUnit("{query}"),
	); err != nil {
		return nil, err
	}
	if r.queryLatency, err = meter.Float64Histogram("placefinder.query.duration",
		metric.WithDescription("End to end query duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60),
	); err != nil {
		return nil, err
	}
	if r.stageLatency, err = meter.Float64Histogram("placefinder.stage.duration",
		metric.WithDescription("Pipeline stage duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30),
	); err != nil {
		return nil, err
	}
	if r.cacheLookups, err = meter.Int64Counter("placefinder.cache.lookups",
		metric.WithDescription("Cache lookups by kind and result"),
		metric.WithUnit("{lookup}"),
	); err != nil {
		return nil, err
	}
	return &r, nil
}

// QueryCompleted records one finished query.
func (r *Recorder) QueryCompleted(ctx context.Context, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	r.queries.Add(ctx, 1, attrs)
	r.queryLatency.Record(ctx, elapsed.Seconds(), attrs)
}

// StageCompleted records the duration of one pipeline stage.
func (r *Recorder) StageCompleted(ctx context.Context, stage string, elapsed time.Duration) {
	r.stageLatency.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("stage", stage)))
}

// CacheLookup records a cache hit or miss.
func (r *Recorder) CacheLookup(ctx context.Context, kind string, hit bool) {
	r.cacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("hit", hit),
	))
}
