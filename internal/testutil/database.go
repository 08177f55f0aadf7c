// Package testutil provides test databases and record fixtures.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/penny/internal/model"
	"github.com/Veraticus/penny/internal/storage"
)

// TestDB is a migrated in-memory SQLite database.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// TestDBOptions configures SetupTestDBWithOptions.
type TestDBOptions struct {
	CustomSetup    func(context.Context, *storage.SQLiteStorage) error
	Seed           map[string][]model.Record
	SkipMigrations bool
}

// SetupTestDB creates a migrated in-memory database closed at test cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	db.MustCommit("42", testutil.Subscription("netflix", 599, day))
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(storage.MemoryDSN)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	db := &TestDB{Storage: store, t: t}
	for chatID, records := range opts.Seed {
		db.MustCommit(chatID, records...)
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return db
}

// MustCommit stores records for chatID and returns their IDs.
func (db *TestDB) MustCommit(chatID string, records ...model.Record) []string {
	db.t.Helper()
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		id, err := db.Storage.CommitRecord(context.Background(), chatID, rec)
		if err != nil {
			db.t.Fatalf("failed to seed %s %q: %v", rec.Kind(), rec.DisplayName(), err)
		}
		ids = append(ids, id)
	}
	return ids
}

// MustList returns chatID's records of kind.
func (db *TestDB) MustList(chatID string, kind model.RecordKind) []model.Record {
	db.t.Helper()
	records, err := db.Storage.ListRecords(context.Background(), chatID, kind)
	if err != nil {
		db.t.Fatalf("failed to list %s records: %v", kind, err)
	}
	return records
}

// Subscription builds a monthly subscription in the default currency.
func Subscription(name string, cost int64, next time.Time) *model.Subscription {
	return &model.Subscription{
		Name:            name,
		Cost:            decimal.NewFromInt(cost),
		Currency:        model.DefaultCurrency,
		NextPaymentDate: next,
		BillingPeriod:   model.BillingMonthly,
	}
}

// Expense builds an expense in the default currency.
func Expense(title string, amount int64, spentAt time.Time) *model.Expense {
	return &model.Expense{
		Title:    title,
		Amount:   decimal.NewFromInt(amount),
		Currency: model.DefaultCurrency,
		SpentAt:  spentAt,
	}
}

// Income builds an income in the default currency.
func Income(title string, amount int64, receivedAt time.Time) *model.Income {
	return &model.Income{
		Title:      title,
		Amount:     decimal.NewFromInt(amount),
		Currency:   model.DefaultCurrency,
		ReceivedAt: receivedAt,
	}
}
