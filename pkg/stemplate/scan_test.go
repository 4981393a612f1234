package stemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScanText_Positions tests span ordering and byte offsets.
func TestScanText_Positions(t *testing.T) {
	sc := scanText("a ${x} b ${y} c", "${", "}")

	require.Len(t, sc.spans, 3, "two placeholders plus the sentinel")
	assert.False(t, sc.unterminated)

	assert.Equal(t, "x", sc.spans[0].key)
	assert.Equal(t, 2, sc.spans[0].start)
	assert.Equal(t, 5, sc.spans[0].end)
	assert.Equal(t, 6, sc.spans[0].next)

	assert.Equal(t, "y", sc.spans[1].key)
	assert.Equal(t, 9, sc.spans[1].start)

	// Sentinel: zero-length span where scanning stopped.
	last := sc.spans[2]
	assert.Equal(t, "", last.key)
	assert.Equal(t, last.start, last.end)
	assert.Equal(t, directiveEmpty, last.dir.kind)

	// Spans are strictly ordered and non-overlapping.
	for i := 1; i < len(sc.spans); i++ {
		assert.GreaterOrEqual(t, sc.spans[i].start, sc.spans[i-1].next)
	}
}

// TestScanText_Nested tests that balanced nested pairs belong to the
// enclosing key.
func TestScanText_Nested(t *testing.T) {
	tests := []struct {
		name string
		text string
		keys []string
	}{
		{
			name: "nested default value",
			text: "${content:-${first} and ${second}}",
			keys: []string{"content:-${first} and ${second}", ""},
		},
		{
			name: "double nesting",
			text: "${a${b${c}}}",
			keys: []string{"a${b${c}}", ""},
		},
		{
			name: "nested then sibling",
			text: "${a${b}} ${c}",
			keys: []string{"a${b}", "c", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := scanText(tt.text, "${", "}")
			var keys []string
			for _, sp := range sc.spans {
				keys = append(keys, sp.key)
			}
			assert.Equal(t, tt.keys, keys)
		})
	}
}

// TestScanText_Unterminated tests that an unbalanced start token stops
// the scan and leaves the remainder literal.
func TestScanText_Unterminated(t *testing.T) {
	sc := scanText("a ${x} and ${oops", "${", "}")

	require.Len(t, sc.spans, 1, "no sentinel after an unterminated token")
	assert.Equal(t, "x", sc.spans[0].key)
	assert.True(t, sc.unterminated)
	assert.Equal(t, 11, sc.untermPos)
}

// TestScanText_NoPlaceholders tests the sentinel-only scan.
func TestScanText_NoPlaceholders(t *testing.T) {
	sc := scanText("just text", "${", "}")

	require.Len(t, sc.spans, 1)
	assert.Equal(t, directiveEmpty, sc.spans[0].dir.kind)
	assert.Equal(t, 0, sc.spans[0].start)
	assert.False(t, sc.unterminated)
}

// TestScanText_MultiByteDelimiters tests overlapping multi-byte tokens.
func TestScanText_MultiByteDelimiters(t *testing.T) {
	sc := scanText("My dog ${{dog}} has a friend {not a placeholder}", "${{", "}}")

	require.Len(t, sc.spans, 2)
	assert.Equal(t, "dog", sc.spans[0].key)
	assert.Equal(t, 7, sc.spans[0].start)
	assert.Equal(t, 15, sc.spans[0].next)
}

// TestScanText_EmptyInputs tests the degenerate inputs that disable
// scanning entirely.
func TestScanText_EmptyInputs(t *testing.T) {
	assert.Empty(t, scanText("", "${", "}").spans)
	assert.Empty(t, scanText("text ${x}", "", "}").spans)
	assert.Empty(t, scanText("text ${x}", "${", "").spans)
}

// TestFindClose tests the level-counting close search.
func TestFindClose(t *testing.T) {
	tests := []struct {
		name string
		s    string
		want int
	}{
		{name: "flat", s: "${a} rest", want: 3},
		{name: "nested", s: "${a${b}c} rest", want: 8},
		{name: "no close", s: "${abc", want: -1},
		{name: "nested unbalanced", s: "${a${b}", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findClose(tt.s, "${", "}"))
		})
	}
}
