package session

import (
	"context"
	"errors"
)

// ErrEmptyKey is returned when a store is called without a chat key.
var ErrEmptyKey = errors.New("chat key is required")

// Store keeps at most one PendingConversation per chat key. Get returns
// nil and no error when the chat has no live conversation, including when
// the stored one has outlived the store's TTL.
type Store interface {
	Get(ctx context.Context, chatKey string) (*PendingConversation, error)
	Set(ctx context.Context, p *PendingConversation) error
	Delete(ctx context.Context, chatKey string) error
}

func validate(ctx context.Context, chatKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if chatKey == "" {
		return ErrEmptyKey
	}
	return nil
}
