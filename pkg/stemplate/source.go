package stemplate

import "fmt"

// VariableSource supplies variable bindings to a render.
//
// A source is read-only for the duration of a render: Lookup resolves a
// single name and Snapshot enumerates every binding, which multi-value
// fan-out needs to discover pipe-separated value lists.
type VariableSource interface {
	// Lookup returns the value bound to name and whether it is bound.
	Lookup(name string) (string, bool)

	// Snapshot returns a copy of all bindings. Callers may mutate the
	// returned map freely.
	Snapshot() map[string]string
}

// mapSource is a VariableSource backed by a plain map.
type mapSource map[string]string

// Map returns a VariableSource backed by m. The map must not be mutated
// while a render is in progress.
func Map(m map[string]string) VariableSource {
	return mapSource(m)
}

// Values returns a VariableSource over arbitrary values, formatted with
// the fmt package's default %v verb. Convenient for maps decoded from
// YAML or JSON.
func Values(m map[string]any) VariableSource {
	s := make(mapSource, len(m))
	for k, v := range m {
		s[k] = fmt.Sprintf("%v", v)
	}
	return s
}

// Env returns an empty VariableSource, forcing every plain placeholder to
// resolve through the environment capability.
func Env() VariableSource {
	return mapSource(nil)
}

// Lookup returns the value bound to name.
func (s mapSource) Lookup(name string) (string, bool) {
	v, ok := s[name]
	return v, ok
}

// Snapshot returns a copy of the bindings.
func (s mapSource) Snapshot() map[string]string {
	out := make(map[string]string, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
