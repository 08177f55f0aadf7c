// Package dialogue turns chat messages into record operations, asking
// follow-up questions when a message leaves something out.
package dialogue

import (
	"context"
	"errors"

	"github.com/Veraticus/penny/internal/model"
)

// RecordStore persists a chat's records.
type RecordStore interface {
	// LookupCandidates returns records of kind whose name contains query or
	// is contained in it, ignoring case.
	LookupCandidates(ctx context.Context, chatID string, kind model.RecordKind, query string) ([]model.Candidate, error)
	CommitRecord(ctx context.Context, chatID string, record model.Record) (string, error)
	DeleteRecord(ctx context.Context, chatID string, kind model.RecordKind, id string) error
	ListRecords(ctx context.Context, chatID string, kind model.RecordKind) ([]model.Record, error)
}

// Transcriber turns a voice message into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// ErrNoTranscriber is returned by HandleVoice when the engine has no
// Transcriber.
var ErrNoTranscriber = errors.New("no transcriber configured")
