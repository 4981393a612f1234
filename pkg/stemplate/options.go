package stemplate

import (
	"log/slog"

	"github.com/randalmurphal/stemplate/pkg/stemplate/observability"
)

// EnvFunc resolves an environment variable. It mirrors os.LookupEnv so
// tests can inject a deterministic fake instead of touching the process
// environment.
type EnvFunc func(name string) (string, bool)

// FileReadFunc reads the file named by an include placeholder.
type FileReadFunc func(path string) (string, error)

// Option configures a Template at construction.
type Option func(*Template)

// WithMaxDepth sets the recursion depth cap for re-expansion.
// Default: DefaultMaxDepth (16). Values <= 0 are ignored.
//
// The cap is what guarantees termination for self-referencing variables;
// at the cap, remaining placeholder text is returned as literal output.
//
// Example:
//
//	t := stemplate.New("${a}", stemplate.WithMaxDepth(4))
func WithMaxDepth(n int) Option {
	return func(t *Template) {
		if n > 0 {
			t.maxDepth = n
		}
	}
}

// WithEnvironment replaces the environment lookup used by plain and
// default-clause placeholders. Default: os.LookupEnv.
//
// Example:
//
//	fake := map[string]string{"HOME": "/tmp"}
//	t := stemplate.New("${HOME}", stemplate.WithEnvironment(func(name string) (string, bool) {
//	    v, ok := fake[name]
//	    return v, ok
//	}))
func WithEnvironment(fn EnvFunc) Option {
	return func(t *Template) {
		if fn != nil {
			t.env = fn
		}
	}
}

// WithFileReader replaces the file reader used by include placeholders.
// Default: os.ReadFile.
func WithFileReader(fn FileReadFunc) Option {
	return func(t *Template) {
		if fn != nil {
			t.readFile = fn
		}
	}
}

// WithLogger attaches a structured logger. Render lifecycle events are
// logged at Debug and include read failures at Warn. Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Template) {
		t.logger = logger
	}
}

// WithMetrics attaches a metrics recorder for render latency, depth and
// fan-out width. Default: no-op.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(t *Template) {
		if m != nil {
			t.metrics = m
		}
	}
}

// WithTracing attaches a span manager so each render produces a trace
// span. Default: no-op.
func WithTracing(s observability.SpanManager) Option {
	return func(t *Template) {
		if s != nil {
			t.spans = s
		}
	}
}
