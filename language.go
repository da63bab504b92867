package ifevalko

import (
	"maps"
	"slices"
	"strings"
)

// languageCodes maps ISO 639-1 codes to English language names for the
// response-language instruction. Read-only after init.
var languageCodes = map[string]string{
	"en": "English",
	"es": "Spanish",
	"pt": "Portuguese",
	"ar": "Arabic",
	"hi": "Hindi",
	"fr": "French",
	"ru": "Russian",
	"de": "German",
	"ja": "Japanese",
	"it": "Italian",
	"bn": "Bengali",
	"uk": "Ukrainian",
	"th": "Thai",
	"ur": "Urdu",
	"ta": "Tamil",
	"te": "Telugu",
	"bg": "Bulgarian",
	"ko": "Korean",
	"pl": "Polish",
	"he": "Hebrew",
	"fa": "Persian",
	"vi": "Vietnamese",
	"ne": "Nepali",
	"sw": "Swahili",
	"kn": "Kannada",
	"mr": "Marathi",
	"gu": "Gujarati",
	"pa": "Punjabi",
	"ml": "Malayalam",
	"fi": "Finnish",
}

// LanguageName returns the English name for an ISO 639-1 code.
// Lookup ignores case: "KO" and "ko" both return "Korean".
func LanguageName(code string) (string, bool) {
	name, ok := languageCodes[strings.ToLower(code)]
	return name, ok
}

// LanguageCodes returns a copy of the code table. Changes to the returned map
// do not affect later lookups.
func LanguageCodes() map[string]string {
	return maps.Clone(languageCodes)
}

// SortedLanguageCodes returns every known code in ascending order.
func SortedLanguageCodes() []string {
	return slices.Sorted(maps.Keys(languageCodes))
}
