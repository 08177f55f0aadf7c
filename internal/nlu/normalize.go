// Package nlu turns free-form chat messages into intents and typed slots.
//
// Every function in this package is pure and total: malformed or empty input
// yields a zero value (empty string, false, default currency, default date),
// never an error or a panic.
package nlu

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// keptPunctuation is the punctuation that survives normalization.
const keptPunctuation = ".,;:()-+$/"

// currencyGlyphs are the currency signs that survive normalization besides $.
const currencyGlyphs = "₽₩₸€"

var quoteReplacer = strings.NewReplacer(
	"«", " ", "»", " ",
	"“", " ", "”", " ", "„", " ", "‟", " ",
	"\"", " ",
	"‘", "'", "’", "'", "‚", "'", "‛", "'",
	"`", "'", "´", "'", "ʼ", "'",
	"\u00a0", " ", "\u202f", " ", "\u2007", " ",
	"ё", "е", "Ё", "Е",
)

// Normalize canonicalizes raw input: quotes become spaces, apostrophes are
// unified, non-breaking spaces become spaces, "ё" folds to "е", characters
// outside letters, digits, whitespace, keptPunctuation and currency glyphs are
// dropped, and whitespace runs collapse to a single space.
//
// Normalize is idempotent.
func Normalize(raw string) string {
	s := norm.NFC.String(raw)
	s = quoteReplacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if keepRune(r) {
			b.WriteRune(r)
		}
	}

	s = strings.Join(strings.Fields(b.String()), " ")
	// Dropping a character can leave composable Hangul jamo side by side.
	return norm.NFC.String(s)
}

// NormalizeLower is Normalize followed by lowercasing; the classifier and the
// title extractor work on this form.
func NormalizeLower(raw string) string {
	return strings.ToLower(Normalize(raw))
}

func keepRune(r rune) bool {
	switch {
	case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsSpace(r):
		return true
	case strings.ContainsRune(keptPunctuation, r), strings.ContainsRune(currencyGlyphs, r):
		return true
	}
	return false
}
