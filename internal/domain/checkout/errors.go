// internal/domain/checkout/errors.go
package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart blocks settlement of a cart with no line items
	ErrEmptyCart = errors.New("cart is empty")

	// ErrSubmissionInProgress is returned while another submission holds the same idempotency key
	ErrSubmissionInProgress = errors.New("submission with this idempotency key is already in progress")
)

// OrderStoreError means the order was not persisted and nothing was charged
type OrderStoreError struct {
	Err error
}

func (e *OrderStoreError) Error() string {
	return fmt.Sprintf("order store: %v", e.Err)
}

func (e *OrderStoreError) Unwrap() error {
	return e.Err
}

// RewardAccrualError means the order stands but its points were not recorded
type RewardAccrualError struct {
	CustomerID uint
	Points     int64
	Err        error
}

func (e *RewardAccrualError) Error() string {
	return fmt.Sprintf("reward accrual of %d points for customer %d: %v", e.Points, e.CustomerID, e.Err)
}

func (e *RewardAccrualError) Unwrap() error {
	return e.Err
}
