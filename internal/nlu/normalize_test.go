package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "guillemets become spaces", in: "«Netflix»  10000₩", want: "Netflix 10000₩"},
		{name: "curly quotes", in: "“Spotify” 5$", want: "Spotify 5$"},
		{name: "yo folds", in: "Ёлка и ёж", want: "Елка и еж"},
		{name: "decomposed yo folds", in: "е\u0308ж", want: "еж"},
		{name: "nbsp collapses", in: "10\u00a0000 руб", want: "10 000 руб"},
		{name: "emoji and symbols dropped", in: "кофе ☕️ 300₽ #food!", want: "кофе 300₽ food"},
		{name: "kept punctuation", in: "12.03.2024, (тест): a-b+c/d", want: "12.03.2024, (тест): a-b+c/d"},
		{name: "apostrophe dropped", in: "don’t", want: "dont"},
		{name: "hangul kept", in: "넷플릭스 10000원", want: "넷플릭스 10000원"},
		{name: "tenge and euro kept", in: "5000₸ 10€", want: "5000₸ 10€"},
		{name: "empty", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"«Netflix» 10 000 вон, 12-го числа!!",
		"Ёжик  в   тумане ‘n’ stuff",
		"ᄀ!ᅡ",
		"ｆｕｌｌ width １２３",
		"tab\tand\nnewline",
		"",
		"💸💸💸",
		"ё́",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeLower(t *testing.T) {
	assert.Equal(t, "добавь netflix 10000 вон", NormalizeLower("Добавь NETFLIX 10000 Вон"))
}
