// Package observability provides opt-in observability for stemplate:
// structured logging, metrics, and tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// Everything is opt-in and has no-op implementations when disabled.
package observability

import "log/slog"

// LogRenderStart logs the start of a render call.
func LogRenderStart(logger *slog.Logger, renderID string, placeholders int) {
	if logger == nil {
		return
	}
	logger.Debug("render starting",
		slog.String("render_id", renderID),
		slog.Int("placeholders", placeholders),
	)
}

// LogRenderComplete logs render completion.
func LogRenderComplete(logger *slog.Logger, renderID string, durationMs float64, depth int) {
	if logger == nil {
		return
	}
	logger.Debug("render completed",
		slog.String("render_id", renderID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("depth_reached", depth),
	)
}

// LogIncludeError logs an include file read failure (non-fatal; the
// placeholder degrades to empty output).
func LogIncludeError(logger *slog.Logger, path string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("include read failed",
		slog.String("path", path),
		slog.String("error", err.Error()),
	)
}
