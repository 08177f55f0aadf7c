package model

import "github.com/shopspring/decimal"

// Currency identifies the currency of an amount by ISO code and display glyph.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

// Known currencies.
var (
	KZT = Currency{Code: "KZT", Symbol: "₸"}
	RUB = Currency{Code: "RUB", Symbol: "₽"}
	USD = Currency{Code: "USD", Symbol: "$"}
	KRW = Currency{Code: "KRW", Symbol: "₩"}
	EUR = Currency{Code: "EUR", Symbol: "€"}
)

// DefaultCurrency is assumed when a message names no currency.
var DefaultCurrency = KRW

// CurrencyByCode returns the known currency with the given ISO code.
func CurrencyByCode(code string) (Currency, bool) {
	for _, c := range []Currency{KZT, RUB, USD, KRW, EUR} {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// MaxAmount is the largest amount accepted for any record.
var MaxAmount = decimal.NewFromInt(1_000_000_000)

// FormatAmount renders an amount with its currency symbol, e.g. "12000 ₩".
func FormatAmount(amount decimal.Decimal, currency Currency) string {
	return amount.String() + " " + currency.Symbol
}
