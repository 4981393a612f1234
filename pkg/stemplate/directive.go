package stemplate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// directiveKind identifies the semantic meaning of a placeholder key.
type directiveKind int

const (
	// directivePlain substitutes a variable, with environment fallback and
	// optional ":-" / ":=" default clauses resolved at render time.
	directivePlain directiveKind = iota

	// directiveInclude substitutes the contents of a file ("!path.inc").
	directiveInclude

	// directiveCond substitutes text only when a variable equals an
	// expected value ("?name=expected:-then").
	directiveCond

	// directiveMulti fans a template body out across pipe-separated value
	// lists ("*body" or "*<delim>body").
	directiveMulti

	// directiveLiteral substitutes a variable verbatim and disables any
	// further re-expansion of the output ("=name").
	directiveLiteral

	// directiveCycle substitutes successive elements of a pipe-separated
	// list, advancing once per occurrence ("#name").
	directiveCycle

	// directiveEmpty substitutes nothing. Used for the scanner's sentinel
	// and for keys that match a directive prefix but fail to parse.
	directiveEmpty
)

// directive is the classified form of a placeholder key.
type directive struct {
	kind directiveKind

	// name is the variable name, or the file path for directiveInclude.
	name string

	// expect and then are the comparison value and substitution text for
	// directiveCond.
	expect string
	then   string

	// delim is the join delimiter for directiveMulti.
	delim string
}

// classify decides the meaning of a raw placeholder key. First match wins:
//
//  1. "!path.inc"             -> include
//  2. "?name=expected:-then"  -> conditional (":=" also accepted)
//  3. "*body" / "*<d>body"    -> multi-value fan-out
//  4. "=name"                 -> literal copy
//  5. "#name"                 -> cycle
//  6. anything else           -> plain variable
//
// Plain keys carrying ":-" or ":=" default clauses stay plain here; the
// renderer splits them only after the full raw key misses in the variable
// source.
func classify(key string) directive {
	switch {
	case key == "":
		return directive{kind: directiveEmpty}

	case strings.HasPrefix(key, "!") && strings.HasSuffix(key, ".inc"):
		return directive{kind: directiveInclude, name: key[1:]}

	case strings.HasPrefix(key, "?") && strings.Contains(key, "=") &&
		(strings.Contains(key, ":-") || strings.Contains(key, ":=")):
		if d, ok := parseConditional(key); ok {
			return d
		}
		// Malformed conditionals consume the placeholder and substitute
		// nothing rather than falling through to a plain lookup.
		return directive{kind: directiveEmpty}

	case strings.HasPrefix(key, "*"):
		return parseMulti(key[1:])

	case strings.HasPrefix(key, "="):
		return directive{kind: directiveLiteral, name: key[1:]}

	case strings.HasPrefix(key, "#"):
		return directive{kind: directiveCycle, name: key[1:]}

	default:
		return directive{kind: directivePlain, name: key}
	}
}

// parseConditional parses "?lhs=expected:-then" (or the ":=" spelling).
// The key must split into exactly two pieces on the default separator and
// the left side into exactly two pieces on "="; anything else is rejected.
func parseConditional(key string) (directive, bool) {
	parts := strings.Split(key, ":-")
	if len(parts) != 2 {
		parts = strings.Split(key, ":=")
	}
	if len(parts) != 2 {
		return directive{}, false
	}

	lhs := strings.Split(parts[0][1:], "=")
	if len(lhs) != 2 {
		return directive{}, false
	}

	return directive{
		kind:   directiveCond,
		name:   lhs[0],
		expect: lhs[1],
		then:   parts[1],
	}, true
}

// parseMulti parses the remainder of a "*" key. When the first rune is a
// letter the join delimiter defaults to a newline and the whole remainder
// names the body variable; otherwise that single rune is the delimiter.
func parseMulti(rest string) directive {
	d := directive{kind: directiveMulti, delim: "\n"}
	if rest == "" {
		return d
	}

	r, size := utf8.DecodeRuneInString(rest)
	if unicode.IsLetter(r) {
		d.name = rest
	} else {
		d.delim = rest[:size]
		d.name = rest[size:]
	}
	return d
}
