package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records for testing.
type testHandler struct {
	buf   *bytes.Buffer
	level slog.Level
}

func newTestHandler() *testHandler {
	return &testHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *testHandler) WithGroup(_ string) slog.Handler      { return h }

// records decodes everything the handler captured.
func (h *testHandler) records(t *testing.T) []map[string]any {
	var out []map[string]any
	dec := json.NewDecoder(h.buf)
	for dec.More() {
		var m map[string]any
		require.NoError(t, dec.Decode(&m))
		out = append(out, m)
	}
	return out
}

func TestLogRenderStart(t *testing.T) {
	t.Run("logs at debug with render fields", func(t *testing.T) {
		h := newTestHandler()
		LogRenderStart(slog.New(h), "render-123", 4)

		recs := h.records(t)
		require.Len(t, recs, 1)
		assert.Equal(t, "DEBUG", recs[0]["level"])
		assert.Equal(t, "render starting", recs[0]["msg"])
		assert.Equal(t, "render-123", recs[0]["render_id"])
		assert.Equal(t, float64(4), recs[0]["placeholders"])
	})

	t.Run("nil logger is safe", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogRenderStart(nil, "render-123", 4)
		})
	})
}

func TestLogRenderComplete(t *testing.T) {
	t.Run("logs duration and depth", func(t *testing.T) {
		h := newTestHandler()
		LogRenderComplete(slog.New(h), "render-123", 1.5, 3)

		recs := h.records(t)
		require.Len(t, recs, 1)
		assert.Equal(t, "render completed", recs[0]["msg"])
		assert.Equal(t, 1.5, recs[0]["duration_ms"])
		assert.Equal(t, float64(3), recs[0]["depth_reached"])
	})

	t.Run("nil logger is safe", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogRenderComplete(nil, "render-123", 1.5, 3)
		})
	})
}

func TestLogIncludeError(t *testing.T) {
	t.Run("logs at warn with path and error", func(t *testing.T) {
		h := newTestHandler()
		LogIncludeError(slog.New(h), "header.inc", errors.New("no such file"))

		recs := h.records(t)
		require.Len(t, recs, 1)
		assert.Equal(t, "WARN", recs[0]["level"])
		assert.Equal(t, "header.inc", recs[0]["path"])
		assert.Equal(t, "no such file", recs[0]["error"])
	})

	t.Run("nil logger is safe", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogIncludeError(nil, "header.inc", errors.New("x"))
		})
	})
}
