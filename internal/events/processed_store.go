// Package events de-duplicates webhook deliveries. Meta retries a webhook
// whenever the 200 arrives late, so the same message id can show up twice.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultProcessedTTL = 24 * time.Hour

// ProcessedStore records webhook events that were already handled.
type ProcessedStore interface {
	// MarkProcessed records eventID, returning false if it was already recorded.
	MarkProcessed(ctx context.Context, provider, eventID string) (bool, error)
}

// RedisProcessedStore keeps processed ids as expiring Redis keys.
type RedisProcessedStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProcessedStore(client *redis.Client, ttl time.Duration) *RedisProcessedStore {
	if client == nil {
		panic("events: redis client required")
	}
	if ttl <= 0 {
		ttl = defaultProcessedTTL
	}
	return &RedisProcessedStore{client: client, ttl: ttl}
}

func (s *RedisProcessedStore) MarkProcessed(ctx context.Context, provider, eventID string) (bool, error) {
	key := fmt.Sprintf("igdm:processed:%s:%s", provider, eventID)
	ok, err := s.client.SetNX(ctx, key, time.Now().UTC().Unix(), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("events: mark processed: %w", err)
	}
	return ok, nil
}

// MemoryProcessedStore is a process-local ProcessedStore with expiry.
type MemoryProcessedStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

func NewMemoryProcessedStore(ttl time.Duration) *MemoryProcessedStore {
	if ttl <= 0 {
		ttl = defaultProcessedTTL
	}
	return &MemoryProcessedStore{ttl: ttl, seen: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryProcessedStore) MarkProcessed(_ context.Context, provider, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, at := range s.seen {
		if now.Sub(at) > s.ttl {
			delete(s.seen, k)
		}
	}

	key := provider + ":" + eventID
	if _, ok := s.seen[key]; ok {
		return false, nil
	}
	s.seen[key] = now
	return true, nil
}
