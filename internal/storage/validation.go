// Package storage provides the data persistence layer for chat records.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/penny/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidKind  = errors.New("invalid record kind")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return ctx.Err()
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateKind(kind model.RecordKind) error {
	switch kind {
	case model.KindSubscription, model.KindExpense, model.KindIncome:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
}

// validateRecord rejects nil and invalid records.
func validateRecord(record model.Record) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid %s: %w", record.Kind(), err)
	}
	return nil
}
