package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCategory(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		lang   Lang
		want   string
		wantOK bool
	}{
		{name: "russian label", in: "Расход 500 вон обед категория еда", lang: LangRU, want: "еда", wantOK: true},
		{name: "russian label stops at digits", in: "категория такси 5000 вон", lang: LangRU, want: "такси", wantOK: true},
		{name: "colon", in: "expense 10$ category: food, lunch", lang: LangEN, want: "Food", wantOK: true},
		{name: "latin under russian label capitalized", in: "подписка spotify категория music", lang: LangRU, want: "Music", wantOK: true},
		{name: "korean", in: "지출 5000원 카테고리 식비", lang: LangKO, want: "식비", wantOK: true},
		{name: "korean bunryu", in: "분류 교통 3000원", lang: LangKO, want: "교통", wantOK: true},
		{name: "last label wins", in: "категория еда 100 вон category travel", lang: LangRU, want: "Travel", wantOK: true},
		{name: "mixed language label", in: "расход 100 вон category fun", lang: LangRU, want: "Fun", wantOK: true},
		{name: "label without value", in: "категория 500", lang: LangRU},
		{name: "no label", in: "Расход 12000 вон кафе сегодня", lang: LangRU},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractCategory(tt.in, tt.lang)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
