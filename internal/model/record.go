package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// RecordKind names one of the three record collections a chat owns.
type RecordKind string

const (
	// KindSubscription is a recurring payment.
	KindSubscription RecordKind = "subscription"
	// KindExpense is a one-off spending event.
	KindExpense RecordKind = "expense"
	// KindIncome is a one-off income event.
	KindIncome RecordKind = "income"
)

// RecordKinds lists every kind in display order.
var RecordKinds = []RecordKind{KindExpense, KindIncome, KindSubscription}

// ParseRecordKind accepts singular or plural kind names.
func ParseRecordKind(s string) (RecordKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "subscription", "subscriptions", "sub", "subs":
		return KindSubscription, nil
	case "expense", "expenses":
		return KindExpense, nil
	case "income", "incomes":
		return KindIncome, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// BillingPeriod is how often a subscription charges.
type BillingPeriod string

const (
	// BillingMonthly charges once a month.
	BillingMonthly BillingPeriod = "monthly"
	// BillingYearly charges once a year.
	BillingYearly BillingPeriod = "yearly"
)

// MaxNameLength bounds subscription names, in runes.
const MaxNameLength = 100

// Record validation errors.
var (
	ErrUnknownKind      = errors.New("unknown record kind")
	ErrEmptyName        = errors.New("name is empty")
	ErrNameTooLong      = errors.New("name is too long")
	ErrAmountOutOfRange = errors.New("amount out of range")
)

// Record is implemented by every record the dialogue layer can create.
type Record interface {
	Kind() RecordKind
	RecordID() string
	DisplayName() string
	Validate() error
}

// Candidate is a record offered to the user during removal.
type Candidate struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Subscription is a recurring payment.
type Subscription struct {
	NextPaymentDate time.Time       `json:"next_payment_date"`
	CreatedAt       time.Time       `json:"created_at"`
	Cost            decimal.Decimal `json:"cost"`
	Currency        Currency        `json:"currency"`
	ID              string          `json:"id"`
	ChatID          string          `json:"chat_id"`
	Name            string          `json:"name"`
	BillingPeriod   BillingPeriod   `json:"billing_period"`
	RecurrenceLabel string          `json:"recurrence_label"`
	Category        string          `json:"category,omitempty"`
}

// Kind implements Record.
func (s *Subscription) Kind() RecordKind { return KindSubscription }

// RecordID implements Record.
func (s *Subscription) RecordID() string { return s.ID }

// DisplayName implements Record.
func (s *Subscription) DisplayName() string { return s.Name }

// Validate checks the name length and cost range.
func (s *Subscription) Validate() error {
	if err := validateName(s.Name, MaxNameLength); err != nil {
		return err
	}
	if err := ValidateAmount(s.Cost); err != nil {
		return err
	}
	switch s.BillingPeriod {
	case BillingMonthly, BillingYearly:
	default:
		return fmt.Errorf("invalid billing period: %q", s.BillingPeriod)
	}
	return nil
}

// Expense is money spent once.
type Expense struct {
	SpentAt   time.Time       `json:"spent_at"`
	CreatedAt time.Time       `json:"created_at"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  Currency        `json:"currency"`
	ID        string          `json:"id"`
	ChatID    string          `json:"chat_id"`
	Title     string          `json:"title"`
	Category  string          `json:"category,omitempty"`
}

// Kind implements Record.
func (e *Expense) Kind() RecordKind { return KindExpense }

// RecordID implements Record.
func (e *Expense) RecordID() string { return e.ID }

// DisplayName implements Record.
func (e *Expense) DisplayName() string { return e.Title }

// Validate checks the title and amount.
func (e *Expense) Validate() error {
	if err := validateName(e.Title, MaxTitleLength); err != nil {
		return err
	}
	return ValidateAmount(e.Amount)
}

// Income is money received once.
type Income struct {
	ReceivedAt time.Time       `json:"received_at"`
	CreatedAt  time.Time       `json:"created_at"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   Currency        `json:"currency"`
	ID         string          `json:"id"`
	ChatID     string          `json:"chat_id"`
	Title      string          `json:"title"`
	Category   string          `json:"category,omitempty"`
}

// Kind implements Record.
func (i *Income) Kind() RecordKind { return KindIncome }

// RecordID implements Record.
func (i *Income) RecordID() string { return i.ID }

// DisplayName implements Record.
func (i *Income) DisplayName() string { return i.Title }

// Validate checks the title and amount.
func (i *Income) Validate() error {
	if err := validateName(i.Title, MaxTitleLength); err != nil {
		return err
	}
	return ValidateAmount(i.Amount)
}

// MaxTitleLength bounds expense and income titles, in runes.
const MaxTitleLength = 120

// ValidateAmount requires 0 <= amount <= MaxAmount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() || amount.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: %s", ErrAmountOutOfRange, amount.String())
	}
	return nil
}

func validateName(name string, limit int) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > limit {
		return fmt.Errorf("%w: %d > %d", ErrNameTooLong, utf8.RuneCountInString(name), limit)
	}
	return nil
}
