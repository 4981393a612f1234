package stemplate

import (
	"context"
	"errors"
	"strings"

	"log/slog"

	"github.com/randalmurphal/stemplate/pkg/stemplate/observability"
)

// renderState is the context of one top-level render call. It is threaded
// through every recursive render that call spawns (includes, multi-value
// bodies, re-expansion) and is never shared with a sibling call.
type renderState struct {
	ctx      context.Context
	env      EnvFunc
	readFile FileReadFunc
	maxDepth int

	logger  *slog.Logger
	metrics observability.MetricsRecorder

	// cycles maps each cycle-directive name to its current index.
	cycles map[string]int

	// deepest is the highest recursion depth reached, for telemetry.
	deepest int

	// strict turns degradation bookkeeping on; missing and issues feed
	// the strict render surface's error.
	strict  bool
	missing []string
	issues  []error
}

// render walks the scanned placeholders of sc in order, substituting each
// according to its directive, then drives the depth-bounded re-expansion
// of the assembled output.
func (st *renderState) render(sc scanResult, src VariableSource, depth int) string {
	if depth > st.deepest {
		st.deepest = depth
	}

	var out strings.Builder
	cursor := 0

	// Pass-scoped state: the multi-value flag and literal flag belong to
	// this placeholder walk only, as do the variable snapshot (overlay)
	// and the pipe-split lists, which later multi-value placeholders in
	// the same pass reuse.
	var (
		multiFired bool
		literal    bool
		overlay    map[string]string
		lists      map[string][]string
	)

	for _, sp := range sc.spans {
		out.WriteString(sc.text[cursor:sp.start])
		cursor = sp.next

		switch sp.dir.kind {
		case directiveEmpty:
			// Sentinel or unparseable key: substitutes nothing.

		case directiveInclude:
			out.WriteString(st.include(sp.dir.name, sc, src, depth))

		case directiveCond:
			if v, ok := src.Lookup(sp.dir.name); ok && v == sp.dir.expect {
				out.WriteString(strings.TrimSpace(sp.dir.then))
			}

		case directiveMulti:
			multiFired = true
			if lists == nil {
				overlay = src.Snapshot()
				lists = splitLists(overlay)
			}
			out.WriteString(st.multiValue(sp.dir, sc, src, overlay, lists, depth))

		case directiveLiteral:
			if v, ok := src.Lookup(sp.dir.name); ok {
				literal = true
				out.WriteString(v)
			}

		case directiveCycle:
			out.WriteString(st.cycle(sp.dir.name, src))

		default: // directivePlain
			v, ok := src.Lookup(sp.dir.name)
			if !ok {
				v = st.fallback(sp.dir.name, src)
			}
			// Once a multi-value directive has fired in this pass,
			// pipe-carrying values are assumed to be consumed index-wise
			// by the fan-out and are suppressed here.
			if !multiFired || !strings.Contains(v, "|") {
				out.WriteString(strings.TrimSpace(v))
			}
		}
	}

	res := out.String()

	if sc.unterminated && st.strict {
		st.issues = append(st.issues, &UnterminatedError{Pos: sc.untermPos})
	}

	// Re-expand the assembled output while it still contains placeholder
	// text, unless a literal copy fired at this level. The cap makes
	// self-referencing variables terminate with their residual delimiter
	// text as literal output.
	if !literal && sc.startTok != "" && strings.Contains(res, sc.startTok) {
		if depth < st.maxDepth {
			res = st.subRender(res, sc, src, depth+1)
		} else if st.strict {
			st.issues = append(st.issues, &DepthError{Depth: depth})
		}
	}

	// Literal text after the last placeholder. Non-empty only when the
	// scan stopped at an unterminated start token or at the sentinel; it
	// contains no further placeholders and is never re-expanded.
	if cursor < len(sc.text) {
		res += sc.text[cursor:]
	}

	return res
}

// subRender scans and renders a nested text with the same delimiters. The
// text is trimmed once, exactly as the construction surface trims.
func (st *renderState) subRender(text string, sc scanResult, src VariableSource, depth int) string {
	return st.render(scanText(strings.TrimSpace(text), sc.startTok, sc.endTok), src, depth)
}

// include substitutes the contents of a file. Read failures degrade to
// empty output. The trimmed content is rendered as a nested template when
// it contains the start token, and trimmed again afterwards.
func (st *renderState) include(path string, sc scanResult, src VariableSource, depth int) string {
	content, err := st.readFile(path)
	if err != nil {
		observability.LogIncludeError(st.logger, path, err)
		if st.strict {
			st.issues = append(st.issues, &IncludeError{Path: path, Err: err})
		}
		return ""
	}
	st.metrics.RecordInclude(st.ctx, path, int64(len(content)))

	content = strings.TrimSpace(content)
	if strings.Contains(content, sc.startTok) {
		content = st.subRender(content, sc, src, depth+1)
	}
	return strings.TrimSpace(content)
}

// cycle substitutes the current element of a pipe-separated list and
// advances the per-name index for the next occurrence. Indexes live for
// exactly one top-level render call. No environment fallback.
func (st *renderState) cycle(name string, src VariableSource) string {
	v, ok := src.Lookup(name)
	if !ok {
		return ""
	}
	parts := strings.Split(v, "|")
	if i, seen := st.cycles[name]; seen {
		st.cycles[name] = (i + 1) % len(parts)
	} else {
		st.cycles[name] = 0
	}
	return parts[st.cycles[name]]
}

// multiValue fans the template body bound to d.name out across the
// pipe-separated value lists the body references. The shortest qualifying
// list bounds the iteration count; each iteration renders the body with
// the qualifying names overridden by their i-th element. With no
// qualifying list the body renders once as an ordinary nested template.
//
// Cost note: fan-outs compose multiplicatively. A body that itself
// contains an N-way fan-out inside this M-way one performs N*M body
// renders; the depth cap, not input size, is the only bound on total work.
func (st *renderState) multiValue(d directive, sc scanResult, src VariableSource, overlay map[string]string, lists map[string][]string, depth int) string {
	body, ok := src.Lookup(d.name)
	if !ok {
		return ""
	}

	referenced := func(name string) bool {
		return strings.Contains(body, sc.startTok+name+sc.endTok)
	}

	shortest := -1
	for name, vals := range lists {
		if referenced(name) && (shortest < 0 || len(vals) < shortest) {
			shortest = len(vals)
		}
	}

	if shortest < 0 {
		return st.subRender(body, sc, Map(overlay), depth+1)
	}
	st.metrics.RecordFanOut(st.ctx, shortest)

	parts := make([]string, 0, shortest)
	for i := 0; i < shortest; i++ {
		for name, vals := range lists {
			if referenced(name) {
				overlay[name] = vals[i]
			}
		}
		parts = append(parts, st.subRender(body, sc, Map(overlay), depth+1))
	}
	return strings.Join(parts, d.delim)
}

// fallback resolves a plain key that missed in the variable source:
// ":-" and ":=" default clauses first (both trigger on missing-or-empty),
// then the environment, then empty.
func (st *renderState) fallback(key string, src VariableSource) string {
	if strings.Contains(key, ":-") {
		return st.defaultFor(key, ":-", src)
	}
	if strings.Contains(key, ":=") {
		return st.defaultFor(key, ":=", src)
	}
	if v, ok := st.env(key); ok {
		return strings.TrimSpace(v)
	}
	if st.strict {
		st.missing = append(st.missing, key)
	}
	return ""
}

// defaultFor resolves "name<sep>fallback": a non-empty binding wins, then
// the environment, then the fallback text verbatim.
func (st *renderState) defaultFor(key, sep string, src VariableSource) string {
	parts := strings.Split(key, sep)
	if v, ok := src.Lookup(parts[0]); ok && v != "" {
		return v
	}
	if v, ok := st.env(parts[0]); ok {
		return v
	}
	return parts[1]
}

// splitLists extracts the pipe-separated value lists from a variable
// snapshot, trimming each element.
func splitLists(vars map[string]string) map[string][]string {
	lists := make(map[string][]string)
	for name, v := range vars {
		if !strings.Contains(v, "|") {
			continue
		}
		raw := strings.Split(v, "|")
		vals := make([]string, len(raw))
		for i, r := range raw {
			vals[i] = strings.TrimSpace(r)
		}
		lists[name] = vals
	}
	return lists
}

// err assembles the strict-mode error, if any.
func (st *renderState) err() error {
	if !st.strict {
		return nil
	}
	var errs []error
	if len(st.missing) > 0 {
		errs = append(errs, &MissingVariableError{Names: st.missing})
	}
	errs = append(errs, st.issues...)
	return errors.Join(errs...)
}
