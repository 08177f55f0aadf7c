package nlu

import (
	"strings"

	"github.com/Veraticus/penny/internal/model"
)

// currencyForms lists how one currency is written.
type currencyForms struct {
	currency model.Currency
	// words may be glued to a preceding number ("6000вон").
	words map[Lang][]string
	// suffixes only count directly after a number ("500р").
	suffixes []string
}

// currencyTable is in priority order: the first currency mentioned in this
// order wins when a message names several.
var currencyTable = []currencyForms{
	{
		currency: model.KZT,
		words: map[Lang][]string{
			LangRU: {"тенге", "тг", "тнг"},
			LangEN: {"kzt", "tenge"},
			LangKO: {"텡게"},
		},
	},
	{
		currency: model.RUB,
		words: map[Lang][]string{
			LangRU: {"рублей", "рубля", "рубль", "руб", "рублях"},
			LangEN: {"rub", "rubles", "ruble", "roubles", "rouble"},
			LangKO: {"루블"},
		},
		suffixes: []string{"р"},
	},
	{
		currency: model.USD,
		words: map[Lang][]string{
			LangRU: {"долларов", "доллара", "доллар", "долл", "баксов", "бакса", "бакс"},
			LangEN: {"usd", "dollars", "dollar", "bucks"},
			LangKO: {"달러", "불"},
		},
	},
	{
		currency: model.KRW,
		words: map[Lang][]string{
			LangRU: {"вон", "вона", "воны"},
			LangEN: {"krw", "won"},
			LangKO: {"원", "만원", "천원"},
		},
	},
	{
		currency: model.EUR,
		words: map[Lang][]string{
			LangRU: {"евро"},
			LangEN: {"eur", "euro", "euros"},
			LangKO: {"유로"},
		},
	},
}

// DetectCurrency returns the currency mentioned in text, or the default ₩
// when none is.
func DetectCurrency(text string) model.Currency {
	if c, ok := matchCurrency(strings.ToLower(text)); ok {
		return c
	}
	return model.DefaultCurrency
}

// matchCurrency scans lowercased text for currency glyphs and words in
// priority order.
func matchCurrency(text string) (model.Currency, bool) {
	for _, forms := range currencyTable {
		if forms.mentionedIn(text) {
			return forms.currency, true
		}
	}
	return model.Currency{}, false
}

func (f currencyForms) mentionedIn(text string) bool {
	if strings.Contains(text, f.currency.Symbol) {
		return true
	}
	for _, l := range []Lang{LangRU, LangEN, LangKO} {
		for _, w := range f.words[l] {
			if _, ok := indexToken(text, w, digitBoundary); ok {
				return true
			}
		}
	}
	for _, s := range f.suffixes {
		if _, ok := indexToken(text, s, gluedToNumber); ok {
			return true
		}
	}
	return false
}

// startsWithCurrency reports whether text, after leading spaces, begins with
// a currency glyph or currency word.
func startsWithCurrency(text string) bool {
	text = strings.TrimLeft(text, " ")
	if text == "" {
		return false
	}
	for _, forms := range currencyTable {
		if strings.HasPrefix(text, forms.currency.Symbol) {
			return true
		}
		for _, l := range []Lang{LangRU, LangEN, LangKO} {
			for _, w := range forms.words[l] {
				if strings.HasPrefix(text, w) && rightOK(text[len(w):], lastRune(w)) {
					return true
				}
			}
		}
		for _, s := range forms.suffixes {
			if strings.HasPrefix(text, s) && rightOK(text[len(s):], lastRune(s)) {
				return true
			}
		}
	}
	return false
}

// endsWithCurrencyGlyph reports whether text ends with a currency glyph,
// ignoring trailing spaces ("$ 15", "₩10000").
func endsWithCurrencyGlyph(text string) bool {
	text = strings.TrimRight(text, " ")
	for _, forms := range currencyTable {
		if strings.HasSuffix(text, forms.currency.Symbol) {
			return true
		}
	}
	return false
}

// isCurrencyWord reports whether tok is exactly a currency word or glyph.
func isCurrencyWord(tok string) bool {
	for _, forms := range currencyTable {
		if tok == forms.currency.Symbol {
			return true
		}
		for _, words := range forms.words {
			for _, w := range words {
				if tok == w {
					return true
				}
			}
		}
		for _, s := range forms.suffixes {
			if tok == s {
				return true
			}
		}
	}
	return false
}
