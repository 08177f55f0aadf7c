package nlu

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCost(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Расход 12000 вон кафе сегодня", "12000", true},
		{"такси 10 000 руб", "10000", true},
		{"такси 10\u00a0000 руб", "10000", true},
		{"кофе 3,5 $", "3.5", true},
		{"кофе 3.75 $", "3.75", true},
		{"1 000 000 вон", "1000000", true},
		{"12 0000", "12", true},
		{"6000вон", "6000", true},
		{"no digits here", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractCost(tt.in)
		require.Equal(t, tt.wantOK, ok, "input %q", tt.in)
		if ok {
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "input %q: got %s", tt.in, got)
		}
	}
}

func TestExtractSubscriptionCost(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Добавь подписку KT 15 числа 12000 рублей", "12000", true},
		{"Netflix 10000 вон 12 числа", "10000", true},
		{"spotify 5 числа $10", "10", true},
		{"youtube 15 числа 14900₩", "14900", true},
		{"netflix 12 числа 10000", "10000", true},
		{"netflix", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractSubscriptionCost(tt.in)
		require.Equal(t, tt.wantOK, ok, "input %q", tt.in)
		if ok {
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "input %q: got %s", tt.in, got)
		}
	}
}

func TestExtractSubscriptionCost_PrefersCurrencyBoundNumber(t *testing.T) {
	got, ok := ExtractSubscriptionCost("Добавь подписку KT 15 числа 12000 рублей")
	require.True(t, ok)
	assert.False(t, got.Equal(decimal.NewFromInt(15)))
}

func TestScanNumbers(t *testing.T) {
	nums := scanNumbers("12.03.2024 и 10 000 и 7")
	require.Len(t, nums, 4)
	assert.Equal(t, "12.03", nums[0].raw)
	assert.True(t, nums[0].grouped)
	assert.Equal(t, "2024", nums[1].raw)
	assert.Equal(t, "10 000", nums[2].raw)
	assert.True(t, nums[2].grouped)
	assert.Equal(t, "7", nums[3].raw)
	assert.False(t, nums[3].grouped)
}
