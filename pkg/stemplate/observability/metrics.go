package observability

import (
	"context"
	"sync"
	"time"

	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records stemplate metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordRender records a completed render call with its duration, the
	// deepest recursion level reached, and the strict-mode error if any.
	RecordRender(ctx context.Context, duration time.Duration, depth int, err error)

	// RecordFanOut records the width of a multi-value fan-out.
	RecordFanOut(ctx context.Context, width int)

	// RecordInclude records a successful include file read.
	RecordInclude(ctx context.Context, path string, sizeBytes int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	renders     metric.Int64Counter
	renderMs    metric.Float64Histogram
	renderDepth metric.Int64Histogram
	renderErrs  metric.Int64Counter
	fanOutWidth metric.Int64Histogram
	includeSize metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("stemplate")

	renders, err := meter.Int64Counter("stemplate.render.count",
		metric.WithDescription("Number of render calls"),
	)
	if err != nil {
		return nil, err
	}

	renderMs, err := meter.Float64Histogram("stemplate.render.latency_ms",
		metric.WithDescription("Render latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	renderDepth, err := meter.Int64Histogram("stemplate.render.depth",
		metric.WithDescription("Deepest recursion level reached per render"),
	)
	if err != nil {
		return nil, err
	}

	renderErrs, err := meter.Int64Counter("stemplate.render.errors",
		metric.WithDescription("Number of strict renders that reported degradations"),
	)
	if err != nil {
		return nil, err
	}

	fanOutWidth, err := meter.Int64Histogram("stemplate.fanout.width",
		metric.WithDescription("Multi-value fan-out width"),
	)
	if err != nil {
		return nil, err
	}

	includeSize, err := meter.Int64Histogram("stemplate.include.size_bytes",
		metric.WithDescription("Include file size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		renders:     renders,
		renderMs:    renderMs,
		renderDepth: renderDepth,
		renderErrs:  renderErrs,
		fanOutWidth: fanOutWidth,
		includeSize: includeSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordRender records a completed render call.
func (m *otelMetrics) RecordRender(ctx context.Context, duration time.Duration, depth int, err error) {
	m.renders.Add(ctx, 1)
	m.renderMs.Record(ctx, float64(duration.Microseconds())/1000)
	m.renderDepth.Record(ctx, int64(depth))
	if err != nil {
		m.renderErrs.Add(ctx, 1)
	}
}

// RecordFanOut records the width of a multi-value fan-out.
func (m *otelMetrics) RecordFanOut(ctx context.Context, width int) {
	m.fanOutWidth.Record(ctx, int64(width))
}

// RecordInclude records a successful include file read.
func (m *otelMetrics) RecordInclude(ctx context.Context, path string, sizeBytes int64) {
	m.includeSize.Record(ctx, sizeBytes, metric.WithAttributes(
		attribute.String("path", path),
	))
}
