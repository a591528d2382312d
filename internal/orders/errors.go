package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrContention marks transient store failures (deadlock, serialization
// failure, lock wait timeout). The whole call is safe to retry: nothing was
// committed.
var ErrContention = errors.New("contention")

// ErrOrderNotFound is returned by the read path for an unknown order id.
var ErrOrderNotFound = errors.New("order not found")

// ValidationError rejects a malformed request before any transaction opens.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid order: " + e.Reason }

// NotFoundError means a requested product does not exist.
type NotFoundError struct {
	ProductID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InsufficientStockError means the locked stock could not cover the
// requested quantity.
type InsufficientStockError struct {
	ProductID string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product %s out of stock (available: %d, requested: %d)",
		e.ProductID, e.Available, e.Requested)
}

// SQLSTATEs the store raises when two transactions collide.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// classify maps store-level faults onto the error taxonomy. Contention is
// retryable; anything else propagates wrapped as a storage failure.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return fmt.Errorf("%w: %v", ErrContention, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrContention, err)
	}
	return fmt.Errorf("storage: %w", err)
}
