/*
Package stemplate expands delimiter-bracketed placeholders in text.

# Overview

stemplate substitutes ${name} placeholders against a variable mapping,
falling back to environment variables or file contents, and re-expands
results that themselves contain placeholders up to a bounded recursion
depth (16 by default). It is a macro expander, not a templating language:
there are no loops, partials or expressions beyond one equality test.

# Basic Usage

Scan once, render as often as needed:

	t := stemplate.New("Hello, ${name}")
	out := t.Render(map[string]string{"name": "Charles"})
	// out: "Hello, Charles"

Values may themselves contain placeholders; the output is re-expanded
until no placeholders remain or the depth cap is hit:

	vars := map[string]string{"fullname": "${first:-Fred} ${last:-Bloggs}"}
	out := stemplate.New("${fullname}").Render(vars)
	// out: "Fred Bloggs"

# Placeholder Directives

The text between the delimiters selects a directive:

  - ${name}            plain substitution, environment fallback
  - ${name:-fallback}  fallback when missing or empty (":=" works too)
  - ${!path.inc}       substitute file contents, expanded if templated
  - ${?name=x:-then}   substitute "then" only when name equals "x"
  - ${*body}           fan the body template out across pipe lists
  - ${*<d>body}        same, joined with the single delimiter rune d
  - ${=name}           verbatim copy, exempt from further expansion
  - ${#name}           round-robin over a pipe-separated list

Multi-value fan-out renders the body once per element of the shortest
pipe-separated list the body references:

	vars := map[string]string{
	    "dog":  "woofers|rex",
	    "cat":  "kitty|moggi",
	    "pets": "${dog} and ${cat}",
	}
	out := stemplate.New("${*|pets}").Render(vars)
	// out: "woofers and kitty|rex and moggi"

# Custom Delimiters

Delimiter tokens are arbitrary strings and need not be disjoint:

	t := stemplate.NewDelimit("My dog ${{dog}}", "${{", "}}")

# Error Handling

Render never fails: missing variables, unreadable includes, unterminated
delimiters and depth exhaustion all degrade to partial or empty output.
RenderStrict produces the identical output and additionally reports those
degradations as typed errors.

# Determinism

Environment and file access go through injectable capabilities
(WithEnvironment, WithFileReader), so tests can run against fakes instead
of the real process environment.

# Cost

Nested fan-outs compose multiplicatively: an N-way fan-out whose body
performs an M-way fan-out renders N*M bodies. The depth cap bounds
re-expansion, not fan-out width.
*/
package stemplate
