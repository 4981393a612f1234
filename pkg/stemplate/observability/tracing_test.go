package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest creates a test tracer provider with an in-memory span
// recorder.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	// Update the package-level tracer
	tracer = otel.Tracer("stemplate")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}

	return exporter, cleanup
}

func TestStartRenderSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	t.Run("creates span with render attributes", func(t *testing.T) {
		exporter.Reset()

		m := NewSpanManager()
		_, span := m.StartRenderSpan(context.Background(), "render-123", 7)
		require.NotNil(t, span)
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		s := spans[0]
		assert.Equal(t, "stemplate.render", s.Name)

		attrs := make(map[string]any)
		for _, kv := range s.Attributes {
			attrs[string(kv.Key)] = kv.Value.AsInterface()
		}
		assert.Equal(t, "render-123", attrs["render.id"])
		assert.Equal(t, int64(7), attrs["render.placeholders"])
	})
}

func TestEndSpanWithError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()

	t.Run("success sets ok status", func(t *testing.T) {
		exporter.Reset()

		_, span := m.StartRenderSpan(context.Background(), "render-1", 1)
		m.EndSpanWithError(span, nil)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Ok, spans[0].Status.Code)
	})

	t.Run("error is recorded", func(t *testing.T) {
		exporter.Reset()

		_, span := m.StartRenderSpan(context.Background(), "render-2", 1)
		m.EndSpanWithError(span, errors.New("missing variable: name"))

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		require.Len(t, spans[0].Events, 1, "error event recorded")
	})

	t.Run("nil span is safe", func(t *testing.T) {
		assert.NotPanics(t, func() {
			m.EndSpanWithError(nil, errors.New("x"))
		})
	})
}

func TestNoopSpanManager(t *testing.T) {
	var m SpanManager = NoopSpanManager{}

	ctx := context.Background()
	outCtx, span := m.StartRenderSpan(ctx, "render-1", 1)
	assert.Equal(t, ctx, outCtx, "context passes through unchanged")
	assert.NotNil(t, span)
	assert.NotPanics(t, func() {
		m.EndSpanWithError(span, errors.New("x"))
	})
}
