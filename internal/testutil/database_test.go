package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/penny/internal/model"
	"github.com/Veraticus/penny/internal/storage"
)

var day = time.Date(2024, time.April, 12, 0, 0, 0, 0, time.UTC)

func TestSetupTestDB(t *testing.T) {
	db := SetupTestDB(t)

	version, err := db.Storage.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, storage.ExpectedSchemaVersion, version)

	ids := db.MustCommit("42", Subscription("netflix", 599, day), Expense("кафе", 12000, day))
	assert.Len(t, ids, 2)
	assert.Len(t, db.MustList("42", model.KindSubscription), 1)
	assert.Len(t, db.MustList("42", model.KindExpense), 1)
	assert.Empty(t, db.MustList("7", model.KindExpense))
}

func TestSetupTestDBWithOptions(t *testing.T) {
	called := false
	db := SetupTestDBWithOptions(t, TestDBOptions{
		Seed: map[string][]model.Record{
			"42": {Income("bonus", 3000, day)},
		},
		CustomSetup: func(_ context.Context, s *storage.SQLiteStorage) error {
			called = true
			assert.NotNil(t, s)
			return nil
		},
	})

	assert.True(t, called)
	incomes := db.MustList("42", model.KindIncome)
	require.Len(t, incomes, 1)
	assert.Equal(t, "bonus", incomes[0].DisplayName())
}

func TestFixtures(t *testing.T) {
	sub := Subscription("kt", 12000, day)
	assert.NoError(t, sub.Validate())
	assert.Equal(t, model.DefaultCurrency, sub.Currency)
	assert.Equal(t, model.BillingMonthly, sub.BillingPeriod)

	assert.NoError(t, Expense("такси", 6000, day).Validate())
	assert.NoError(t, Income("зарплата", 1000000, day).Validate())
}
