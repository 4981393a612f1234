package stemplate

import (
	"context"
	"os"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/randalmurphal/stemplate/pkg/stemplate/observability"
)

// Default placeholder delimiters.
const (
	DefaultStartDelimiter = "${"
	DefaultEndDelimiter   = "}"
)

// DefaultMaxDepth is the default recursion depth cap for re-expansion.
const DefaultMaxDepth = 16

// Template is a scanned source text ready to render. It is immutable
// after construction and safe for concurrent renders; each render call
// owns its own cycle counters and depth state.
type Template struct {
	scan     scanResult
	maxDepth int
	env      EnvFunc
	readFile FileReadFunc

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// New scans text using the default "${" and "}" delimiters. The text is
// trimmed of outer whitespace once.
//
// Example:
//
//	t := stemplate.New("Hello, ${name}")
//	out := t.Render(map[string]string{"name": "Charles"})
//	// out: "Hello, Charles"
func New(text string, opts ...Option) *Template {
	return NewDelimit(text, DefaultStartDelimiter, DefaultEndDelimiter, opts...)
}

// NewDelimit scans text with custom delimiter tokens. Tokens may be
// multi-byte and need not be disjoint ("${{" with "}}" works). Empty
// tokens disable placeholder scanning; the whole text renders literally.
//
// Example:
//
//	t := stemplate.NewDelimit("Hello, {%name%}", "{%", "%}")
func NewDelimit(text, startTok, endTok string, opts ...Option) *Template {
	t := &Template{
		maxDepth: DefaultMaxDepth,
		env:      os.LookupEnv,
		readFile: readFile,
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.scan = scanText(strings.TrimSpace(text), startTok, endTok)
	return t
}

// Render expands the template against an explicit mapping. Names missing
// from vars fall back to the environment; every failure mode degrades to
// partial or empty output, never an error.
func (t *Template) Render(vars map[string]string) string {
	out, _ := t.render(Map(vars), false)
	return out
}

// RenderValues expands the template against arbitrary values, formatted
// with the fmt package's default %v verb.
func (t *Template) RenderValues(vars map[string]any) string {
	out, _ := t.render(Values(vars), false)
	return out
}

// RenderEnv expands the template against the environment alone.
//
// Example:
//
//	url := stemplate.NewDelimit("{GEMINI_URL}", "{", "}").RenderEnv()
func (t *Template) RenderEnv() string {
	out, _ := t.render(Env(), false)
	return out
}

// RenderSource expands the template against any VariableSource.
func (t *Template) RenderSource(src VariableSource) string {
	out, _ := t.render(src, false)
	return out
}

// RenderStrict expands like Render and additionally reports the degraded
// cases: missing variables, unreadable include files, unterminated
// delimiters and an exhausted depth cap. The returned string is always
// the same best-effort output Render would produce.
func (t *Template) RenderStrict(vars map[string]string) (string, error) {
	return t.render(Map(vars), true)
}

// RenderStrictSource is RenderStrict over any VariableSource.
func (t *Template) RenderStrictSource(src VariableSource) (string, error) {
	return t.render(src, true)
}

// render runs one top-level render call with fresh cycle and depth state.
func (t *Template) render(src VariableSource, strict bool) (string, error) {
	renderID := uuid.New().String()
	ctx, span := t.spans.StartRenderSpan(context.Background(), renderID, len(t.scan.spans))
	start := time.Now()

	observability.LogRenderStart(t.logger, renderID, len(t.scan.spans))

	st := &renderState{
		ctx:      ctx,
		env:      t.env,
		readFile: t.readFile,
		maxDepth: t.maxDepth,
		logger:   t.logger,
		metrics:  t.metrics,
		cycles:   make(map[string]int),
		strict:   strict,
	}

	out := st.render(t.scan, src, 0)
	err := st.err()
	elapsed := time.Since(start)

	t.metrics.RecordRender(ctx, elapsed, st.deepest, err)
	t.spans.EndSpanWithError(span, err)
	observability.LogRenderComplete(t.logger, renderID, float64(elapsed.Microseconds())/1000, st.deepest)

	return out, err
}

// readFile is the default file-read capability for include placeholders.
func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
