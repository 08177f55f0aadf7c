package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/penny/internal/model"
)

func TestValidateContext(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		ctx     context.Context
		wantErr error
		name    string
	}{
		{name: "valid context", ctx: context.Background()},
		{name: "nil context", ctx: nil, wantErr: ErrNilContext},
		{name: "canceled context", ctx: canceled, wantErr: context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name    string
		str     string
		wantErr bool
	}{
		{name: "valid string", str: "42"},
		{name: "empty string", str: "", wantErr: true},
		{name: "whitespace only", str: "  \t ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, "chatID")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrEmptyString)
				assert.Contains(t, err.Error(), "chatID")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateKind(t *testing.T) {
	for _, kind := range model.RecordKinds {
		assert.NoError(t, validateKind(kind), kind)
	}
	assert.ErrorIs(t, validateKind("loan"), ErrInvalidKind)
	assert.ErrorIs(t, validateKind(""), ErrInvalidKind)
}

func TestValidateRecord(t *testing.T) {
	tests := []struct {
		record  model.Record
		wantErr error
		name    string
	}{
		{name: "nil record", record: nil, wantErr: ErrNilParameter},
		{
			name:   "valid subscription",
			record: &model.Subscription{Name: "netflix", Cost: decimal.NewFromInt(599), Currency: model.KRW, BillingPeriod: model.BillingMonthly},
		},
		{
			name:    "name too long",
			record:  &model.Subscription{Name: strings.Repeat("n", model.MaxNameLength+1), Cost: decimal.NewFromInt(1)},
			wantErr: model.ErrNameTooLong,
		},
		{
			name:    "negative amount",
			record:  &model.Expense{Title: "кафе", Amount: decimal.NewFromInt(-1)},
			wantErr: model.ErrAmountOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRecord(tt.record)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
