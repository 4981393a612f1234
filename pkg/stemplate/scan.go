package stemplate

import "strings"

// span is a placeholder located by the scanner: the raw key text between
// the delimiters and its position in the source.
type span struct {
	// key is the raw text between the delimiters, uninterpreted.
	key string

	// start is the byte offset of the opening delimiter.
	// end is the byte offset of the closing delimiter (exclusive of it).
	start, end int

	// next is the offset where scanning resumed after this placeholder.
	next int

	// dir is the classified meaning of key, decided once at scan time.
	dir directive
}

// scanResult holds a scanned source text and its ordered placeholder spans.
//
// Spans are non-overlapping and strictly ordered by position. A scan that
// found no further start token ends with a zero-length sentinel span (kind
// directiveEmpty); everything after the sentinel is literal text. A scan
// that found an unterminated start token has no sentinel: it stops early
// and unterminated marks where the literal remainder begins.
type scanResult struct {
	text     string
	startTok string
	endTok   string
	spans    []span

	unterminated bool
	untermPos    int
}

// scanText locates the top-level placeholders of text.
//
// Empty delimiter tokens disable scanning entirely; the text is literal.
func scanText(text, startTok, endTok string) scanResult {
	sc := scanResult{text: text, startTok: startTok, endTok: endTok}
	if text == "" || startTok == "" || endTok == "" {
		return sc
	}

	cursor := 0
	for {
		rel := strings.Index(text[cursor:], startTok)
		if rel < 0 {
			// Remainder is literal. The sentinel marks where it begins.
			sc.spans = append(sc.spans, span{
				start: cursor,
				end:   cursor,
				next:  cursor,
				dir:   directive{kind: directiveEmpty},
			})
			return sc
		}

		start := cursor + rel
		end := findClose(text[start:], startTok, endTok)
		if end < 0 {
			// No balanced close: the start token and everything after it
			// stay literal.
			sc.unterminated = true
			sc.untermPos = start
			return sc
		}
		end += start

		key := text[start+len(startTok) : end]
		sc.spans = append(sc.spans, span{
			key:   key,
			start: start,
			end:   end,
			next:  end + len(endTok),
			dir:   classify(key),
		})
		cursor = end + len(endTok)
	}
}

// findClose returns the offset of the closing delimiter that balances the
// start token at the beginning of s, or -1 if the level never returns to
// zero. Every occurrence of startTok raises the nesting level and every
// occurrence of endTok lowers it, so a key may embed fully balanced
// placeholder pairs of its own. The start-token branch wins when a
// position matches both tokens.
func findClose(s, startTok, endTok string) int {
	level := 0
	for i := 0; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], startTok):
			level++
		case strings.HasPrefix(s[i:], endTok):
			level--
			if level == 0 {
				return i
			}
		}
	}
	return -1
}
