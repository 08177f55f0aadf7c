package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Veraticus/penny/internal/common"
	"github.com/Veraticus/penny/internal/model"
	"github.com/google/uuid"
)

// MemoryStorage keeps records in process memory. It is used by the REPL
// when no database is configured and by tests.
type MemoryStorage struct {
	records map[string][]model.Record
	now     func() time.Time
	mu      sync.RWMutex
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string][]model.Record),
		now:     time.Now,
	}
}

// Close releases nothing; it lets MemoryStorage stand in for SQLiteStorage.
func (m *MemoryStorage) Close() error {
	return nil
}

// CommitRecord validates and stores a copy of record.
func (m *MemoryStorage) CommitRecord(ctx context.Context, chatID string, record model.Record) (string, error) {
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
	assignIdentity(record, id, chatID, m.now())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[chatID] = append(m.records[chatID], cloneRecord(record))
	return id, nil
}

// DeleteRecord removes one record. A missing record is common.ErrNotFound.
func (m *MemoryStorage) DeleteRecord(ctx context.Context, chatID string, kind model.RecordKind, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateKind(kind); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	recs := m.records[chatID]
	for i, r := range recs {
		if r.Kind() == kind && r.RecordID() == id {
			m.records[chatID] = append(recs[:i:i], recs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s %s: %w", kind, id, common.ErrNotFound)
}

// ListRecords returns copies of a chat's records of one kind, oldest date
// first.
func (m *MemoryStorage) ListRecords(ctx context.Context, chatID string, kind model.RecordKind) ([]model.Record, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateKind(kind); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Record
	for _, r := range m.records[chatID] {
		if r.Kind() == kind {
			out = append(out, cloneRecord(r))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return recordDate(out[i]).Before(recordDate(out[j]))
	})
	return out, nil
}

// LookupCandidates matches names the same way SQLiteStorage does.
func (m *MemoryStorage) LookupCandidates(ctx context.Context, chatID string, kind model.RecordKind, query string) ([]model.Candidate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateKind(kind); err != nil {
		return nil, err
	}

	m.mu.RLock()
	var all []model.Candidate
	for _, r := range m.records[chatID] {
		if r.Kind() == kind {
			all = append(all, model.Candidate{ID: r.RecordID(), DisplayName: r.DisplayName()})
		}
	}
	m.mu.RUnlock()
	return MatchCandidates(query, all), nil
}

func cloneRecord(record model.Record) model.Record {
	switch r := record.(type) {
	case *model.Subscription:
		c := *r
		return &c
	case *model.Expense:
		c := *r
		return &c
	case *model.Income:
		c := *r
		return &c
	}
	return record
}

func recordDate(record model.Record) time.Time {
	switch r := record.(type) {
	case *model.Subscription:
		return r.NextPaymentDate
	case *model.Expense:
		return r.SpentAt
	case *model.Income:
		return r.ReceivedAt
	}
	return time.Time{}
}
