package nlu

import (
	"testing"

	"github.com/Veraticus/penny/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestDetectCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want model.Currency
	}{
		{"1000 тг", model.KZT},
		{"5000₸", model.KZT},
		{"5$", model.USD},
		{"10 долларов", model.USD},
		{"300 рублей", model.RUB},
		{"300р", model.RUB},
		{"300 р.", model.RUB},
		{"12000₽", model.RUB},
		{"6000вон", model.KRW},
		{"13500원", model.KRW},
		{"10 krw", model.KRW},
		{"20€", model.EUR},
		{"no currency info", model.KRW},
		{"", model.KRW},
		{"1000 тг или 5$", model.KZT},
		{"5$ или 300 рублей", model.RUB},
		{"кофе в руках", model.KRW},
		{"병원", model.KRW},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectCurrency(tt.in), "input %q", tt.in)
	}
}

func TestDetectCurrency_DefaultIsWon(t *testing.T) {
	got := DetectCurrency("no currency info")
	assert.Equal(t, "₩", got.Symbol)
	assert.Equal(t, model.DefaultCurrency, got)
}

func TestStartsWithCurrency(t *testing.T) {
	assert.True(t, startsWithCurrency(" рублей за"))
	assert.True(t, startsWithCurrency("₩"))
	assert.True(t, startsWithCurrency("원"))
	assert.False(t, startsWithCurrency(" числа"))
	assert.False(t, startsWithCurrency(" рубашка"))
	assert.False(t, startsWithCurrency(""))
}
