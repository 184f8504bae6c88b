package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict indicates the same key was used with a different payload.
var ErrIdempotencyConflict = errors.New("idempotency conflict")

// IdempotencyRecord associates a client-supplied key with the payment it produced.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     string
	PaymentID   string
	CreatedAt   time.Time
}

// IdempotencyStore persists payment idempotency keys so retries replay safely.
type IdempotencyStore interface {
	// Get returns the stored record for the key, or nil when unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Save persists the record; if the key already exists with the same hash and
	// payment, the stored record is returned. When it points elsewhere,
	// ErrIdempotencyConflict is returned with the stored record.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}
