package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MemoryStore keeps pending conversations in process memory. Expiry is
// checked on every Get; a background sweep also drops expired entries.
type MemoryStore struct {
	now             func() time.Time
	entries         map[string]*PendingConversation
	stopCh          chan struct{}
	stopOnce        sync.Once
	ttl             time.Duration
	cleanupInterval time.Duration
	mu              sync.RWMutex
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// WithCleanupInterval sets how often expired entries are swept. Zero
// disables the sweep.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(s *MemoryStore) { s.cleanupInterval = d }
}

// NewMemoryStore creates a memory store. A zero ttl means DefaultTTL.
func NewMemoryStore(ttl time.Duration, opts ...MemoryOption) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &MemoryStore{
		now:             time.Now,
		entries:         make(map[string]*PendingConversation),
		stopCh:          make(chan struct{}),
		ttl:             ttl,
		cleanupInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cleanupInterval > 0 {
		go s.cleanupLoop()
	}
	return s
}

// Get returns the live conversation for chatKey, or nil.
func (s *MemoryStore) Get(ctx context.Context, chatKey string) (*PendingConversation, error) {
	if err := validate(ctx, chatKey); err != nil {
		return nil, err
	}

	s.mu.RLock()
	p, ok := s.entries[chatKey]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if p.Expired(s.now(), s.ttl) {
		s.mu.Lock()
		if cur, ok := s.entries[chatKey]; ok && cur == p {
			delete(s.entries, chatKey)
		}
		s.mu.Unlock()
		return nil, nil
	}
	return p.clone(), nil
}

// Set stores a copy of p under p.ChatKey.
func (s *MemoryStore) Set(ctx context.Context, p *PendingConversation) error {
	if p == nil {
		return errors.New("pending conversation cannot be nil")
	}
	if err := validate(ctx, p.ChatKey); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[p.ChatKey] = p.clone()
	return nil
}

// Delete removes the conversation for chatKey. Deleting a missing key is
// not an error.
func (s *MemoryStore) Delete(ctx context.Context, chatKey string) error {
	if err := validate(ctx, chatKey); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, chatKey)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopCh) })
	return nil
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, p := range s.entries {
		if p.Expired(now, s.ttl) {
			delete(s.entries, key)
		}
	}
}
