package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsToken(t *testing.T) {
	tests := []struct {
		text  string
		token string
		want  bool
	}{
		{"удали подписку netflix", "удали", true},
		{"удалить подписку", "удали", false},
		{"послезавтра", "завтра", false},
		{"купить завтра хлеб", "завтра", true},
		{"hello there", "hi", false},
		{"hi there", "hi", true},
		{"oh, hi!", "hi", true},
		{"10000 원", "원", true},
		{"10000원", "원", false},
		{"병원", "원", false},
		{"5$", "$", true},
		{"", "a", false},
		{"abc", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, containsToken(tt.text, tt.token), "%q in %q", tt.token, tt.text)
	}
}

func TestIndexToken_Boundaries(t *testing.T) {
	_, ok := indexToken("6000вон", "вон", strictBoundary)
	assert.False(t, ok)

	i, ok := indexToken("6000вон", "вон", digitBoundary)
	assert.True(t, ok)
	assert.Equal(t, 4, i)

	_, ok = indexToken("500р", "р", gluedToNumber)
	assert.True(t, ok)
	_, ok = indexToken("500 р.", "р", gluedToNumber)
	assert.True(t, ok)
	_, ok = indexToken("р 500", "р", gluedToNumber)
	assert.False(t, ok)
	_, ok = indexToken("кофе р", "р", gluedToNumber)
	assert.False(t, ok)
}

func TestLexicon(t *testing.T) {
	lx := DefaultLexicon
	assert.True(t, lx.Has("удали подписку", ConceptSubscriptionNoun))
	assert.False(t, lx.Has("подписчик", ConceptSubscriptionNoun))
	assert.True(t, lx.Contains("покажи мои подписки пожалуйста", ConceptListSubscriptions))
	assert.Equal(t, "мои подписки", lx.Tokens(ConceptListSubscriptions)[0])
}
