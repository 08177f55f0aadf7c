package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/penny/internal/model"
)

func TestRecordLine(t *testing.T) {
	day := time.Date(2024, time.April, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		rec      model.Record
		name     string
		contains []string
	}{
		{
			name: "subscription",
			rec: &model.Subscription{Name: "netflix", Cost: decimal.NewFromInt(10000),
				Currency: model.KRW, NextPaymentDate: day, RecurrenceLabel: "Каждый 12 числа"},
			contains: []string{"2024-04-12", "netflix", "₩", "Каждый 12 числа"},
		},
		{
			name: "expense",
			rec: &model.Expense{Title: "кафе", Amount: decimal.NewFromInt(12000),
				Currency: model.KRW, SpentAt: day, Category: "Еда"},
			contains: []string{"2024-04-12", "кафе", "Еда"},
		},
		{
			name:     "income",
			rec:      &model.Income{Title: "bonus", Amount: decimal.NewFromInt(3000), Currency: model.USD, ReceivedAt: day},
			contains: []string{"2024-04-12", "bonus", "$"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := recordLine(tt.rec)
			for _, want := range tt.contains {
				assert.Contains(t, line, want)
			}
		})
	}
}

func TestPrintRecords(t *testing.T) {
	var out bytes.Buffer
	grouped := map[model.RecordKind][]model.Record{
		model.KindExpense: {&model.Expense{Title: "такси", Amount: decimal.NewFromInt(6000), Currency: model.KRW}},
	}

	require.NoError(t, printRecords(&out, []model.RecordKind{model.KindExpense, model.KindIncome}, grouped))
	assert.Contains(t, out.String(), "expense (1)")
	assert.Contains(t, out.String(), "такси")
	assert.Contains(t, out.String(), "income (0)")
	assert.Contains(t, out.String(), "none")
}
