package ifevalko

import (
	"regexp"
	"strings"
	"unicode"
)

// Marker runes live in the Unicode private use area so they cannot collide
// with ordinary prose. protectedPeriod stands in for a period that must not
// end a sentence; confirmedStop marks a split point.
const (
	protectedPeriod = "\uE000"
	confirmedStop   = "\uE001"
)

// space matches Unicode whitespace, including the ASCII information separators.
const space = `[\t\n\v\f\r\x1c-\x1f\x{85}\p{Z}]`

const (
	letter   = `([A-Za-z])`
	titles   = `(Mr|St|Mrs|Ms|Dr|Prof|Capt|Cpt|Lt)[.]`
	suffixes = `(Inc|Ltd|Jr|Sr|Co)`
	starters = `(Mr|Mrs|Ms|Dr|Prof|Capt|Cpt|Lt|He` + space + `|She` + space + `|It` + space +
		`|They` + space + `|Their` + space + `|Our` + space + `|We` + space + `|But` + space +
		`|However` + space + `|That` + space + `|This` + space + `|Wherever)`
	acronym  = `([A-Z][.][A-Z][.](?:[A-Z][.])?)`
	websites = `[.](com|net|org|io|gov|edu|me)`
	digit    = `([0-9])`
)

// stage is one rewrite step of the segmentation pipeline.
type stage struct {
	name    string
	rewrite func(string) string
}

// regexStage replaces every match of pattern with repl, which may use ${n}
// group references.
func regexStage(name, pattern, repl string) stage {
	re := regexp.MustCompile(pattern)
	return stage{name: name, rewrite: func(s string) string {
		return re.ReplaceAllString(s, repl)
	}}
}

// guardedStage swaps from for to only when guard occurs somewhere in the text.
func guardedStage(name, guard, from, to string) stage {
	return stage{name: name, rewrite: func(s string) string {
		if !strings.Contains(s, guard) {
			return s
		}
		return strings.ReplaceAll(s, from, to)
	}}
}

var ellipsisRE = regexp.MustCompile(`\.{2,}`)

// stages is the ordered rewrite pipeline. Order matters: later stages see the
// markers introduced by earlier ones.
var stages = []stage{
	{name: "pad", rewrite: func(s string) string { return " " + s + "  " }},
	{name: "newlines", rewrite: func(s string) string { return strings.ReplaceAll(s, "\n", " ") }},
	regexStage("titles", titles, "${1}"+protectedPeriod),
	regexStage("websites", websites, protectedPeriod+"${1}"),
	regexStage("decimals", digit+`[.]`+digit, "${1}"+protectedPeriod+"${2}"),
	{name: "ellipsis", rewrite: func(s string) string {
		return ellipsisRE.ReplaceAllStringFunc(s, func(m string) string {
			return strings.Repeat(protectedPeriod, len(m)) + confirmedStop
		})
	}},
	{name: "phd", rewrite: func(s string) string {
		if !strings.Contains(s, "Ph.D") {
			return s
		}
		return strings.ReplaceAll(s, "Ph.D.", "Ph"+protectedPeriod+"D"+protectedPeriod)
	}},
	regexStage("initials", space+letter+`[.] `, " ${1}"+protectedPeriod+" "),
	regexStage("acronym-starter", acronym+" "+starters, "${1}"+confirmedStop+" ${2}"),
	regexStage("letter-triples", letter+`[.]`+letter+`[.]`+letter+`[.]`,
		"${1}"+protectedPeriod+"${2}"+protectedPeriod+"${3}"+protectedPeriod),
	regexStage("letter-pairs", letter+`[.]`+letter+`[.]`,
		"${1}"+protectedPeriod+"${2}"+protectedPeriod),
	regexStage("suffix-starter", " "+suffixes+`[.] `+starters, " ${1}"+confirmedStop+" ${2}"),
	regexStage("suffixes", " "+suffixes+`[.]`, " ${1}"+protectedPeriod),
	regexStage("stray-initials", " "+letter+`[.]`, " ${1}"+protectedPeriod),
	guardedStage("curly-quotes", "“", ".”", "”."),
	guardedStage("period-quote", `"`, `."`, `".`),
	guardedStage("exclamation-quote", "!", `!"`, `"!`),
	guardedStage("question-quote", "?", `?"`, `"?`),
	{name: "terminals", rewrite: terminalReplacer.Replace},
	{name: "restore", rewrite: func(s string) string { return strings.ReplaceAll(s, protectedPeriod, ".") }},
}

var terminalReplacer = strings.NewReplacer(
	".", "."+confirmedStop,
	"?", "?"+confirmedStop,
	"!", "!"+confirmedStop,
)

// SplitIntoSentences splits text into sentences using a rule-based heuristic
// tuned for English and Korean prose.
//
// Periods in titles, initials, acronyms, decimals, web domains and ellipses do
// not end a sentence. Every returned sentence is trimmed. A trailing empty
// fragment is dropped, but empty fragments in the middle are kept, so callers
// counting sentences see every split point.
func SplitIntoSentences(text string) []string {
	for _, st := range stages {
		text = st.rewrite(text)
	}

	parts := strings.Split(text, confirmedStop)
	for i, p := range parts {
		parts[i] = strings.TrimFunc(p, isSpace)
	}
	if n := len(parts); n > 0 && parts[n-1] == "" {
		parts = parts[:n-1]
	}
	return parts
}

// isSpace is unicode.IsSpace extended with the ASCII information separators,
// matching the space class used by the patterns above.
func isSpace(r rune) bool {
	if r >= 0x1c && r <= 0x1f {
		return true
	}
	return unicode.IsSpace(r)
}
