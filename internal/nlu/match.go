package nlu

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// isWordRune reports whether r can be part of a word token.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// boundary controls what may precede a token for it to count as a match.
type boundary int

const (
	// strictBoundary requires a non-word rune or the start of text before the token.
	strictBoundary boundary = iota
	// digitBoundary additionally accepts a digit glued to the token ("6000вон").
	digitBoundary
	// gluedToNumber only accepts a digit directly before the token, optionally
	// separated by one space ("500р", "500 р").
	gluedToNumber
)

// containsToken reports whether token occurs in text as a whole word. Both
// arguments are expected to be lowercased. Sides of the token that are not
// word runes (currency glyphs, slashes) need no boundary.
func containsToken(text, token string) bool {
	_, ok := indexToken(text, token, strictBoundary)
	return ok
}

// indexToken returns the byte offset of the first whole-word occurrence of
// token in text under the given boundary rule.
func indexToken(text, token string, mode boundary) (int, bool) {
	if token == "" {
		return 0, false
	}
	first, _ := utf8.DecodeRuneInString(token)
	last, _ := utf8.DecodeLastRuneInString(token)

	for offset := 0; offset <= len(text)-len(token); {
		i := strings.Index(text[offset:], token)
		if i < 0 {
			return 0, false
		}
		start := offset + i
		end := start + len(token)
		if leftOK(text[:start], first, mode) && rightOK(text[end:], last) {
			return start, true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return 0, false
}

func leftOK(before string, first rune, mode boundary) bool {
	prev, _ := utf8.DecodeLastRuneInString(before)
	switch mode {
	case gluedToNumber:
		if before == "" {
			return false
		}
		if unicode.IsDigit(prev) {
			return true
		}
		if prev == ' ' {
			rest := before[:len(before)-1]
			p2, _ := utf8.DecodeLastRuneInString(rest)
			return rest != "" && unicode.IsDigit(p2)
		}
		return false
	case digitBoundary:
		if before != "" && unicode.IsDigit(prev) {
			return true
		}
	}
	if !isWordRune(first) || before == "" {
		return true
	}
	return !isWordRune(prev)
}

func rightOK(after string, last rune) bool {
	if !isWordRune(last) || after == "" {
		return true
	}
	next, _ := utf8.DecodeRuneInString(after)
	return !isWordRune(next)
}

// containsAnyToken reports whether any of tokens occurs in text as a whole word.
func containsAnyToken(text string, tokens []string) bool {
	for _, tok := range tokens {
		if containsToken(text, tok) {
			return true
		}
	}
	return false
}

// containsAnySubstring reports plain substring containment for any of phrases.
func containsAnySubstring(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// hasDigit reports whether s contains a decimal digit.
func hasDigit(s string) bool {
	return strings.ContainsFunc(s, unicode.IsDigit)
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}
