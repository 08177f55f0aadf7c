package nlu

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// numberToken is one number found in text, with byte offsets.
type numberToken struct {
	raw   string
	value decimal.Decimal
	start int
	end   int
	// grouped is set when the number used thousand separators or a decimal part.
	grouped bool
}

// costWindow is how far after a number a currency marker may sit and still
// be bound to it, in runes.
const costWindow = 12

// scanNumbers finds number tokens: digit runs, optionally grouped in threes
// by a space or no-break space, with an optional decimal part after a comma
// or dot.
func scanNumbers(text string) []numberToken {
	var out []numberToken
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isASCIIDigit(r) {
			i += size
			continue
		}
		start := i
		end := digitRunEnd(text, i)
		grouped := false

		if end-start <= 3 {
			for {
				sepEnd, ok := groupSeparator(text, end)
				if !ok {
					break
				}
				groupEnd := digitRunEnd(text, sepEnd)
				if groupEnd-sepEnd != 3 {
					break
				}
				end = groupEnd
				grouped = true
			}
		}

		if end+1 < len(text) && (text[end] == '.' || text[end] == ',') && isASCIIDigit(rune(text[end+1])) {
			end = digitRunEnd(text, end+1)
			grouped = true
		}

		raw := text[start:end]
		if v, err := decimal.NewFromString(cleanNumber(raw)); err == nil {
			out = append(out, numberToken{raw: raw, value: v, start: start, end: end, grouped: grouped})
		}
		i = end
	}
	return out
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func digitRunEnd(text string, i int) int {
	for i < len(text) && isASCIIDigit(rune(text[i])) {
		i++
	}
	return i
}

// groupSeparator reports whether a thousand separator starts at i and returns
// the offset just after it.
func groupSeparator(text string, i int) (int, bool) {
	if i >= len(text) {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(text[i:])
	if r != ' ' && r != '\u00a0' && r != '\u202f' {
		return 0, false
	}
	if i+size >= len(text) || !isASCIIDigit(rune(text[i+size])) {
		return 0, false
	}
	return i + size, true
}

func cleanNumber(raw string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == ',':
			return '.'
		case unicode.IsSpace(r):
			return -1
		}
		return r
	}, raw)
}

// ExtractCost returns the first number in text. Thousand groups separated by
// spaces are joined and a decimal comma is accepted.
func ExtractCost(text string) (decimal.Decimal, bool) {
	nums := scanNumbers(text)
	if len(nums) == 0 {
		return decimal.Decimal{}, false
	}
	return nums[0].value, true
}

// ExtractSubscriptionCost returns the number most tightly bound to a currency
// marker. Subscriptions are usually phrased "name DAY cost CURRENCY", so the
// numbers are scanned from last to first; if none carries a currency marker
// the last number wins.
func ExtractSubscriptionCost(text string) (decimal.Decimal, bool) {
	lower := strings.ToLower(text)
	nums := scanNumbers(lower)
	if len(nums) == 0 {
		return decimal.Decimal{}, false
	}
	for i := len(nums) - 1; i >= 0; i-- {
		if currencyBound(lower, nums[i]) {
			return nums[i].value, true
		}
	}
	return nums[len(nums)-1].value, true
}

// currencyBound reports whether a currency marker directly follows the number
// within costWindow runes, or a currency glyph directly precedes it.
func currencyBound(text string, n numberToken) bool {
	after := text[n.end:]
	if utf8.RuneCountInString(after) > costWindow {
		after = string([]rune(after)[:costWindow])
	}
	if startsWithCurrency(after) {
		return true
	}
	return endsWithCurrencyGlyph(text[:n.start])
}
