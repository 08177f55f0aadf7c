package nlu

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxTitleRunes bounds an extracted title.
const maxTitleRunes = 120

// titleStopConcepts are lexicon concepts whose words never belong in a title.
var titleStopConcepts = []Concept{
	ConceptAddVerb, ConceptRemoveVerb,
	ConceptSubscriptionNoun, ConceptExpenseNoun, ConceptIncomeNoun,
	ConceptExpenseTrigger, ConceptIncomeTrigger, ConceptIncomePhrase, ConceptSubscriptionTrigger,
	ConceptCategoryLabel, ConceptYearly,
}

// extraStopWords are prepositions, date words, day suffixes and filler that
// the lexicon does not already cover.
var extraStopWords = []string{
	// ru
	"в", "на", "за", "по", "для", "от", "до", "из", "с", "со", "и", "к", "у", "о",
	"сегодня", "вчера", "позавчера", "завтра", "послезавтра", "через", "день", "дня", "дней",
	"числа", "число", "чис", "го", "ого", "ое", "е", "й",
	"каждый", "каждое", "каждого", "месяц", "месяца", "год", "года", "ежемесячно",
	"мне", "моя", "мой", "мою", "мои", "пожалуйста", "сумма", "сумму", "стоимость",
	// en
	"a", "an", "the", "for", "to", "on", "at", "in", "of", "from", "and", "my", "please",
	"today", "yesterday", "tomorrow", "day", "days", "after", "before",
	"st", "nd", "rd", "th", "every", "month", "monthly", "year", "per", "cost", "costs", "amount",
	// ko
	"오늘", "어제", "그제", "그저께", "내일", "모레", "매월", "매달", "매년", "일", "원에", "에", "을", "를", "으로", "로",
}

var titleStopWords = buildTitleStopWords()

func buildTitleStopWords() map[string]struct{} {
	set := make(map[string]struct{})
	for _, c := range titleStopConcepts {
		for _, tok := range DefaultLexicon.Tokens(c) {
			for _, w := range strings.Fields(tok) {
				set[w] = struct{}{}
			}
		}
	}
	for _, w := range extraStopWords {
		set[w] = struct{}{}
	}
	for _, forms := range currencyTable {
		set[forms.currency.Symbol] = struct{}{}
		for _, words := range forms.words {
			for _, w := range words {
				set[w] = struct{}{}
			}
		}
		for _, s := range forms.suffixes {
			set[s] = struct{}{}
		}
	}
	for stem := range monthPrefixes {
		set[stem] = struct{}{}
	}
	return set
}

func isTitleStopWord(tok string) bool {
	if _, ok := titleStopWords[tok]; ok {
		return true
	}
	_, isMonth := monthByName(tok)
	return isMonth && utf8.RuneCountInString(tok) >= 3
}

// ExtractTitle returns what is left of a message once verbs, record-type
// nouns, prepositions, date words, currency words, numbers and the category
// value are removed. It returns "" when fewer than two characters remain.
func ExtractTitle(text, category string) string {
	tokens := strings.Fields(NormalizeLower(text))
	catTokens := strings.Fields(NormalizeLower(category))

	kept := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		if len(catTokens) > 0 && hasRunAt(tokens, i, catTokens) {
			i += len(catTokens) - 1
			continue
		}
		if tok, ok := titleToken(tokens[i]); ok {
			kept = append(kept, tok)
		}
	}

	title := strings.Join(kept, " ")
	if utf8.RuneCountInString(title) > maxTitleRunes {
		title = strings.TrimSpace(string([]rune(title)[:maxTitleRunes]))
	}
	if utf8.RuneCountInString(title) < 2 {
		return ""
	}
	return title
}

// hasRunAt reports whether tokens[i:] starts with run, ignoring edge
// punctuation.
func hasRunAt(tokens []string, i int, run []string) bool {
	if i+len(run) > len(tokens) {
		return false
	}
	for j, want := range run {
		if trimTitlePunct(tokens[i+j]) != trimTitlePunct(want) {
			return false
		}
	}
	return true
}

// titleToken filters one lowercased token. Tokens mixing digits and letters
// lose their digits and the remainder is checked again ("6000вон" → "вон").
func titleToken(tok string) (string, bool) {
	tok = trimTitlePunct(tok)
	if tok == "" || isTitleStopWord(tok) {
		return "", false
	}
	if isNumberLike(tok) {
		return "", false
	}
	if hasDigit(tok) {
		tok = trimTitlePunct(strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) {
				return -1
			}
			return r
		}, tok))
		if tok == "" || isTitleStopWord(tok) {
			return "", false
		}
	}
	if strings.Trim(tok, currencyGlyphs+"$") == "" {
		return "", false
	}
	if utf8.RuneCountInString(tok) < 2 {
		return "", false
	}
	return tok, true
}

func trimTitlePunct(tok string) string {
	return strings.Trim(tok, keptPunctuation)
}

// isNumberLike reports whether tok holds only digits and number punctuation.
func isNumberLike(tok string) bool {
	for _, r := range tok {
		if !unicode.IsDigit(r) && !strings.ContainsRune(".,:/-+", r) {
			return false
		}
	}
	return true
}
