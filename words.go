package ifevalko

import "regexp"

var wordRE = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// CountWords returns the number of maximal runs of word characters (letters,
// digits and underscore in any script) in text. Punctuation and whitespace
// separate words, so Korean eojeol and English words count alike.
func CountWords(text string) int {
	return len(wordRE.FindAllStringIndex(text, -1))
}
