package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/penny/internal/common"
	"github.com/Veraticus/penny/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 20, 15, 4, 0, 0, time.UTC)

// createTestStorage opens a migrated in-memory database.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	store.now = func() time.Time { return fixedNow }
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func netflix(name string, day int) *model.Subscription {
	return &model.Subscription{
		Name:            name,
		Cost:            decimal.NewFromInt(10000),
		Currency:        model.KRW,
		BillingPeriod:   model.BillingMonthly,
		NextPaymentDate: time.Date(2024, time.April, day, 0, 0, 0, 0, time.UTC),
		RecurrenceLabel: "Каждый 12 числа",
	}
}

func TestMigrate(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	require.NoError(t, store.Migrate(ctx), "migrating twice is a no-op")
	assert.Len(t, migrations, ExpectedSchemaVersion)
	for i, m := range migrations {
		assert.Equal(t, i+1, m.Version)
		assert.NotEmpty(t, m.Description)
	}
}

func TestNewSQLiteStorage_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "penny.db")
	store, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Migrate(context.Background()))
	assert.FileExists(t, path)
	assert.Equal(t, path, store.Path())

	_, err = NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestSubscriptionRoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	sub := netflix("Netflix", 12)
	sub.Category = "Видео"
	id, err := store.CommitRecord(ctx, "42", sub)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, sub.ID)
	assert.Equal(t, "42", sub.ChatID)

	recs, err := store.ListRecords(ctx, "42", model.KindSubscription)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	got, ok := recs[0].(*model.Subscription)
	require.True(t, ok)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Netflix", got.Name)
	assert.True(t, got.Cost.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, model.KRW, got.Currency)
	assert.Equal(t, model.BillingMonthly, got.BillingPeriod)
	assert.Equal(t, "Каждый 12 числа", got.RecurrenceLabel)
	assert.Equal(t, "Видео", got.Category)
	assert.True(t, sub.NextPaymentDate.Equal(got.NextPaymentDate))
	assert.True(t, fixedNow.Equal(got.CreatedAt))

	others, err := store.ListRecords(ctx, "43", model.KindSubscription)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestExpenseAndIncomeRoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.CommitRecord(ctx, "42", &model.Expense{
		Title: "кафе", Amount: decimal.RequireFromString("12000.50"), Currency: model.RUB,
		SpentAt: time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = store.CommitRecord(ctx, "42", &model.Expense{
		Title: "такси", Amount: decimal.NewFromInt(6000), Currency: model.KRW,
		SpentAt: time.Date(2024, time.March, 18, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = store.CommitRecord(ctx, "42", &model.Income{
		Title: "зарплата", Amount: decimal.NewFromInt(500000), Currency: model.KRW,
		ReceivedAt: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	expenses, err := store.ListRecords(ctx, "42", model.KindExpense)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, "такси", expenses[0].DisplayName(), "ordered by date")
	cafe := expenses[1].(*model.Expense)
	assert.Equal(t, "12000.5", cafe.Amount.String())
	assert.Equal(t, model.RUB, cafe.Currency)

	incomes, err := store.ListRecords(ctx, "42", model.KindIncome)
	require.NoError(t, err)
	require.Len(t, incomes, 1)
	assert.Equal(t, "зарплата", incomes[0].DisplayName())
}

func TestCommitRecord_Validation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.CommitRecord(ctx, "", netflix("Netflix", 1))
	assert.ErrorIs(t, err, ErrEmptyString)

	_, err = store.CommitRecord(ctx, "42", nil)
	assert.ErrorIs(t, err, ErrNilParameter)

	tooMuch := netflix("Netflix", 1)
	tooMuch.Cost = decimal.NewFromInt(2_000_000_000)
	_, err = store.CommitRecord(ctx, "42", tooMuch)
	assert.ErrorIs(t, err, model.ErrAmountOutOfRange)

	_, err = store.CommitRecord(ctx, "42", &model.Expense{Title: " ", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, model.ErrEmptyName)
}

func TestDeleteRecord(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	id, err := store.CommitRecord(ctx, "42", netflix("Netflix", 1))
	require.NoError(t, err)

	err = store.DeleteRecord(ctx, "43", model.KindSubscription, id)
	assert.ErrorIs(t, err, common.ErrNotFound, "other chats cannot delete")

	require.NoError(t, store.DeleteRecord(ctx, "42", model.KindSubscription, id))
	recs, err := store.ListRecords(ctx, "42", model.KindSubscription)
	require.NoError(t, err)
	assert.Empty(t, recs)

	err = store.DeleteRecord(ctx, "42", model.KindSubscription, id)
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = store.DeleteRecord(ctx, "42", model.RecordKind("loan"), id)
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestLookupCandidates(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	for _, name := range []string{"Netflix Kids", "Spotify", "Netflix"} {
		_, err := store.CommitRecord(ctx, "42", netflix(name, 5))
		require.NoError(t, err)
	}

	got, err := store.LookupCandidates(ctx, "42", model.KindSubscription, "netflix")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Netflix", got[0].DisplayName, "exact match first")
	assert.Equal(t, "Netflix Kids", got[1].DisplayName)

	got, err = store.LookupCandidates(ctx, "42", model.KindSubscription, "spotify premium family")
	require.NoError(t, err)
	require.Len(t, got, 1, "name contained in query")
	assert.Equal(t, "Spotify", got[0].DisplayName)

	got, err = store.LookupCandidates(ctx, "42", model.KindExpense, "netflix")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = store.LookupCandidates(ctx, "42", model.RecordKind("loan"), "netflix")
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestListRecords_InvalidKind(t *testing.T) {
	store := createTestStorage(t)
	_, err := store.ListRecords(context.Background(), "42", model.RecordKind("loan"))
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestCanceledContext(t *testing.T) {
	store := createTestStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.CommitRecord(ctx, "42", netflix("Netflix", 1))
	assert.ErrorIs(t, err, context.Canceled)
}
