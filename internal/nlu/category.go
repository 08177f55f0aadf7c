package nlu

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// categoryPatterns capture the words after a category label up to the next
// digit or punctuation mark.
var categoryPatterns = map[Lang][]*regexp.Regexp{
	LangRU: {regexp.MustCompile(`(?i)(?:^|[^\p{L}])категори(?:я|и|ю|ей)\s*:?\s*([^\d.,;:()+$/₽₩₸€!?]+)`)},
	LangEN: {regexp.MustCompile(`(?i)(?:^|[^\p{L}])category\s*:?\s*([^\d.,;:()+$/₽₩₸€!?]+)`)},
	LangKO: {regexp.MustCompile(`(?:카테고리|분류)\s*:?\s*([^\d.,;:()+$/₽₩₸€!?]+)`)},
}

// ExtractCategory returns the category named after a label such as
// "категория", "category" or "카테고리". The last label in the message wins.
// A capture starting with a Latin letter is capitalized. The detected
// language's patterns are tried with the others, since users mix languages.
func ExtractCategory(text string, lang Lang) (string, bool) {
	best, bestPos := "", -1
	for _, l := range orderedLangs(lang) {
		for _, re := range categoryPatterns[l] {
			for _, idx := range re.FindAllStringSubmatchIndex(text, -1) {
				if idx[2] > bestPos {
					best, bestPos = text[idx[2]:idx[3]], idx[2]
				}
			}
		}
	}
	best = strings.TrimSpace(strings.Trim(best, "-"))
	if best == "" {
		return "", false
	}
	return capitalizeLatin(best), true
}

func orderedLangs(first Lang) []Lang {
	out := []Lang{first}
	for _, l := range []Lang{LangRU, LangEN, LangKO} {
		if l != first {
			out = append(out, l)
		}
	}
	return out
}

func capitalizeLatin(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if !unicode.Is(unicode.Latin, r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
