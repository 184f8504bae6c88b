// Package redis provides a Redis-backed payment idempotency store. Keys carry
// a TTL, which matches their purpose: retries arrive within minutes, not days.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// DefaultKeyTTL keeps idempotency keys long enough to absorb client retries.
const DefaultKeyTTL = 24 * time.Hour

// IdempotencyStore persists payment idempotency keys in Redis.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore dials Redis at the given address.
func NewIdempotencyStore(addr string, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultKeyTTL
	}
	return &IdempotencyStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Ping verifies connectivity; callers may fall back to another store on error.
func (s *IdempotencyStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *IdempotencyStore) Close() error {
	return s.client.Close()
}

func storageKey(key string) string {
	return fmt.Sprintf("orders:payment-idem:%s", key)
}

// Get returns the stored record for the key, or nil when unknown.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	raw, err := s.client.Get(ctx, storageKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var record ports.IdempotencyRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Save stores the record with SETNX semantics so concurrent writers cannot
// overwrite each other; on a lost race the stored record decides the outcome.
func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	set, err := s.client.SetNX(ctx, storageKey(record.Key), payload, s.ttl).Result()
	if err != nil {
		return nil, err
	}
	if set {
		saved := record
		return &saved, nil
	}
	existing, err := s.Get(ctx, record.Key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		// Key expired between SETNX and Get; treat as a fresh save.
		return s.Save(ctx, record)
	}
	if existing.RequestHash != record.RequestHash || existing.PaymentID != record.PaymentID {
		return existing, ports.ErrIdempotencyConflict
	}
	return existing, nil
}
