package tokenizer

import (
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const sentencePieceSpace = '▁' // U+2581 LOWER ONE EIGHTH BLOCK

// span is a byte range in the original text.
type span struct {
	start, end int
}

// normalize prepares text for tokenization following XLM-RoBERTa conventions:
// NFKC per character, a dummy ▁ prefix, whitespace runs collapsed into a
// single ▁ and trailing whitespace dropped.
//
// It returns the normalized runes and, for each of them, the byte range of
// the original character it came from. A ▁ maps to an empty range at the start
// of the character that follows it.
func normalize(text string) ([]rune, []span) {
	var (
		runes     []rune
		spans     []span
		needSpace = true
	)

	for i, r := range text {
		if unicode.IsSpace(r) {
			if len(runes) > 0 {
				needSpace = true
			}
			continue
		}

		end := i + len(string(r))
		if needSpace {
			runes = append(runes, sentencePieceSpace)
			spans = append(spans, span{i, i})
			needSpace = false
		}
		for _, nr := range norm.NFKC.String(string(r)) {
			if unicode.IsSpace(nr) {
				nr = sentencePieceSpace
			}
			runes = append(runes, nr)
			spans = append(spans, span{i, end})
		}
	}

	return runes, spans
}
