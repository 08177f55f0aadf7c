package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/penny/internal/common"
	"github.com/Veraticus/penny/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommitRecord validates and inserts record for chatID. The record's ID,
// ChatID and CreatedAt are filled in on success.
func (s *SQLiteStorage) CommitRecord(ctx context.Context, chatID string, record model.Record) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateString(chatID, "chatID"); err != nil {
		return "", err
	}
	if err := validateRecord(record); err != nil {
		return "", err
	}

	id := uuid.NewString()
	createdAt := s.now()
	err := common.WithRetry(ctx, func() error {
		return s.insertRecord(ctx, chatID, id, createdAt, record)
	}, common.DefaultRetryOptions)
	if err != nil {
		return "", fmt.Errorf("failed to save %s: %w", record.Kind(), err)
	}
	assignIdentity(record, id, chatID, createdAt)
	return id, nil
}

func (s *SQLiteStorage) insertRecord(ctx context.Context, chatID, id string, createdAt time.Time, record model.Record) error {
	var err error
	switch r := record.(type) {
	case *model.Subscription:
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO subscriptions (id, chat_id, name, cost, currency, next_payment_date,
				billing_period, recurrence_label, category, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, chatID, r.Name, r.Cost.String(), r.Currency.Code, r.NextPaymentDate,
			string(r.BillingPeriod), r.RecurrenceLabel, r.Category, createdAt)
	case *model.Expense:
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO expenses (id, chat_id, title, amount, currency, spent_at, category, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, chatID, r.Title, r.Amount.String(), r.Currency.Code, r.SpentAt, r.Category, createdAt)
	case *model.Income:
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO incomes (id, chat_id, title, amount, currency, received_at, category, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, chatID, r.Title, r.Amount.String(), r.Currency.Code, r.ReceivedAt, r.Category, createdAt)
	default:
		return fmt.Errorf("%w: %T", ErrInvalidKind, record)
	}
	return err
}

// DeleteRecord removes one record. A missing record is common.ErrNotFound.
func (s *SQLiteStorage) DeleteRecord(ctx context.Context, chatID string, kind model.RecordKind, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(chatID, "chatID"); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	var affected int64
	err = common.WithRetry(ctx, func() error {
		// #nosec G201 - table comes from tableFor, never from input
		res, execErr := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE chat_id = ? AND id = ?", chatID, id)
		if execErr != nil {
			return execErr
		}
		affected, execErr = res.RowsAffected()
		return execErr
	}, common.DefaultRetryOptions)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, common.ErrNotFound)
	}
	return nil
}

// ListRecords returns a chat's records of one kind, oldest date first.
func (s *SQLiteStorage) ListRecords(ctx context.Context, chatID string, kind model.RecordKind) ([]model.Record, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(chatID, "chatID"); err != nil {
		return nil, err
	}

	switch kind {
	case model.KindSubscription:
		return s.listSubscriptions(ctx, chatID)
	case model.KindExpense:
		return s.listExpenses(ctx, chatID)
	case model.KindIncome:
		return s.listIncomes(ctx, chatID)
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
}

// LookupCandidates returns records of kind whose name contains query or is
// contained in it, ignoring case, best match first.
func (s *SQLiteStorage) LookupCandidates(ctx context.Context, chatID string, kind model.RecordKind, query string) ([]model.Candidate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(chatID, "chatID"); err != nil {
		return nil, err
	}
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	nameColumn := "title"
	if kind == model.KindSubscription {
		nameColumn = "name"
	}
	// #nosec G202 - table and column come from fixed values
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, "+nameColumn+" FROM "+table+" WHERE chat_id = ? ORDER BY created_at, rowid", chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var all []model.Candidate
	for rows.Next() {
		var c model.Candidate
		if err := rows.Scan(&c.ID, &c.DisplayName); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		all = append(all, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}
	return MatchCandidates(query, all), nil
}

func (s *SQLiteStorage) listSubscriptions(ctx context.Context, chatID string) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, chat_id, name, cost, currency, next_payment_date, billing_period,
			recurrence_label, category, created_at
		FROM subscriptions
		WHERE chat_id = ?
		ORDER BY next_payment_date, created_at`, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Record
	for rows.Next() {
		var (
			sub      model.Subscription
			cost     string
			currency string
			period   string
		)
		if err := rows.Scan(&sub.ID, &sub.ChatID, &sub.Name, &cost, &currency, &sub.NextPaymentDate,
			&period, &sub.RecurrenceLabel, &sub.Category, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		if sub.Cost, err = parseAmount(cost); err != nil {
			return nil, err
		}
		sub.Currency = currencyOf(currency)
		sub.BillingPeriod = model.BillingPeriod(period)
		out = append(out, &sub)
	}
	return out, rows.Err()
}

func (s *SQLiteStorage) listExpenses(ctx context.Context, chatID string) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, chat_id, title, amount, currency, spent_at, category, created_at
		FROM expenses
		WHERE chat_id = ?
		ORDER BY spent_at, created_at`, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Record
	for rows.Next() {
		var (
			exp      model.Expense
			amount   string
			currency string
		)
		if err := rows.Scan(&exp.ID, &exp.ChatID, &exp.Title, &amount, &currency, &exp.SpentAt,
			&exp.Category, &exp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if exp.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		exp.Currency = currencyOf(currency)
		out = append(out, &exp)
	}
	return out, rows.Err()
}

func (s *SQLiteStorage) listIncomes(ctx context.Context, chatID string) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, chat_id, title, amount, currency, received_at, category, created_at
		FROM incomes
		WHERE chat_id = ?
		ORDER BY received_at, created_at`, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query incomes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Record
	for rows.Next() {
		var (
			inc      model.Income
			amount   string
			currency string
		)
		if err := rows.Scan(&inc.ID, &inc.ChatID, &inc.Title, &amount, &currency, &inc.ReceivedAt,
			&inc.Category, &inc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		if inc.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		inc.Currency = currencyOf(currency)
		out = append(out, &inc)
	}
	return out, rows.Err()
}

func tableFor(kind model.RecordKind) (string, error) {
	switch kind {
	case model.KindSubscription:
		return "subscriptions", nil
	case model.KindExpense:
		return "expenses", nil
	case model.KindIncome:
		return "incomes", nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, kind)
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: bad amount %q", common.ErrDatabaseCorrupted, s)
	}
	return d, nil
}

func currencyOf(code string) model.Currency {
	if c, ok := model.CurrencyByCode(code); ok {
		return c
	}
	return model.Currency{Code: code, Symbol: code}
}

// assignIdentity stores the generated fields on a committed record.
func assignIdentity(record model.Record, id, chatID string, createdAt time.Time) {
	switch r := record.(type) {
	case *model.Subscription:
		r.ID, r.ChatID, r.CreatedAt = id, chatID, createdAt
	case *model.Expense:
		r.ID, r.ChatID, r.CreatedAt = id, chatID, createdAt
	case *model.Income:
		r.ID, r.ChatID, r.CreatedAt = id, chatID, createdAt
	}
}
