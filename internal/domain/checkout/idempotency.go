// internal/domain/checkout/idempotency.go
package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// IdempotencyStore reserves and records submissions by session and client key
type IdempotencyStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

const (
	submissionPending   = "pending"
	submissionCompleted = "completed"
)

type submissionRecord struct {
	Status  string   `json:"status"`
	Receipt *Receipt `json:"receipt,omitempty"`
}

type guard struct {
	store IdempotencyStore
	ttl   time.Duration
}

// reserve claims key, a value built by idempotencyKey. It returns the stored receipt when the key already
// completed, or ErrSubmissionInProgress when it is still pending.
func (g *guard) reserve(ctx context.Context, key string) (*Receipt, error) {
	pending, err := json.Marshal(submissionRecord{Status: submissionPending})
	if err != nil {
		return nil, err
	}

	ok, err := g.store.SetNX(ctx, key, string(pending), g.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if ok {
		return nil, nil
	}

	var rec submissionRecord
	found, err := g.store.GetJSON(ctx, key, &rec)
	if err != nil {
		return nil, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	if !found {
		// Expired between SETNX and GET; try once more
		return g.reserveOnce(ctx, key, string(pending))
	}
	if rec.Status == submissionCompleted && rec.Receipt != nil {
		return rec.Receipt, nil
	}
	return nil, ErrSubmissionInProgress
}

func (g *guard) reserveOnce(ctx context.Context, key, pending string) (*Receipt, error) {
	ok, err := g.store.SetNX(ctx, key, pending, g.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if !ok {
		return nil, ErrSubmissionInProgress
	}
	return nil, nil
}

// lookup returns the receipt of a completed submission, if any
func (g *guard) lookup(ctx context.Context, key string) (*Receipt, error) {
	var rec submissionRecord
	found, err := g.store.GetJSON(ctx, key, &rec)
	if err != nil || !found {
		return nil, err
	}
	if rec.Status != submissionCompleted {
		return nil, nil
	}
	return rec.Receipt, nil
}

func (g *guard) complete(ctx context.Context, key string, receipt *Receipt) error {
	return g.store.SetJSON(ctx, key, submissionRecord{
		Status:  submissionCompleted,
		Receipt: receipt,
	}, g.ttl)
}

func (g *guard) release(ctx context.Context, key string) error {
	return g.store.Del(ctx, key)
}

// idempotencyKey scopes a client key to the session that sent it, so two
// sessions reusing a key never see each other's receipts.
func idempotencyKey(sessionID, key string) string {
	if key == "" {
		return ""
	}
	return fmt.Sprintf("checkout:idempotency:%s:%s", sessionID, key)
}
