package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "penny:pending:"

// RedisStore keeps pending conversations in Redis so several processes can
// share them. Keys expire after the conversation's remaining TTL; Get also
// checks CreatedAt so clock skew never resurrects an old entry.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
	ttl    time.Duration
}

// NewRedisStore connects to the Redis server at url and pings it.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisStoreWithClient(client, ttl), nil
}

// NewRedisStoreWithClient wraps an existing client. A zero ttl means
// DefaultTTL.
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, now: time.Now, ttl: ttl}
}

// Get returns the live conversation for chatKey, or nil.
func (s *RedisStore) Get(ctx context.Context, chatKey string) (*PendingConversation, error) {
	if err := validate(ctx, chatKey); err != nil {
		return nil, err
	}

	data, err := s.client.Get(ctx, redisKey(chatKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pending conversation: %w", err)
	}

	p, err := decodePending(data)
	if err != nil {
		return nil, err
	}
	if p.Expired(s.now(), s.ttl) {
		return nil, nil
	}
	return p, nil
}

// Set stores p with an expiry equal to its remaining TTL.
func (s *RedisStore) Set(ctx context.Context, p *PendingConversation) error {
	if p == nil {
		return errors.New("pending conversation cannot be nil")
	}
	if err := validate(ctx, p.ChatKey); err != nil {
		return err
	}

	remaining := remainingTTL(p, s.now(), s.ttl)
	if remaining <= 0 {
		return s.Delete(ctx, p.ChatKey)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal pending conversation: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(p.ChatKey), data, remaining).Err(); err != nil {
		return fmt.Errorf("failed to save pending conversation: %w", err)
	}
	return nil
}

// Delete removes the conversation for chatKey.
func (s *RedisStore) Delete(ctx context.Context, chatKey string) error {
	if err := validate(ctx, chatKey); err != nil {
		return err
	}
	if err := s.client.Del(ctx, redisKey(chatKey)).Err(); err != nil {
		return fmt.Errorf("failed to delete pending conversation: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func redisKey(chatKey string) string {
	return redisKeyPrefix + chatKey
}

func remainingTTL(p *PendingConversation, now time.Time, ttl time.Duration) time.Duration {
	return ttl - now.Sub(p.CreatedAt)
}

func decodePending(data []byte) (*PendingConversation, error) {
	var p PendingConversation
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending conversation: %w", err)
	}
	return &p, nil
}
