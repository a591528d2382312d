package orders

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassifyContention(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "55P03"} {
		err := classify(&pgconn.PgError{Code: code})
		assert.ErrorIs(t, err, ErrContention, "code %s", code)
	}
}

func TestClassifyWrappedPgError(t *testing.T) {
	inner := fmt.Errorf("exec: %w", &pgconn.PgError{Code: "40P01"})
	assert.ErrorIs(t, classify(inner), ErrContention)
}

func TestClassifyDeadline(t *testing.T) {
	assert.ErrorIs(t, classify(context.DeadlineExceeded), ErrContention)
}

func TestClassifyStorageFailure(t *testing.T) {
	err := classify(errors.New("connection reset"))
	assert.NotErrorIs(t, err, ErrContention)
	assert.Error(t, err)
}

func TestClassifyNil(t *testing.T) {
	assert.NoError(t, classify(nil))
}

func TestInsufficientStockErrorMessage(t *testing.T) {
	err := &InsufficientStockError{ProductID: "p1", Available: 2, Requested: 3}
	assert.Contains(t, err.Error(), "available: 2")
	assert.Contains(t, err.Error(), "requested: 3")
}
