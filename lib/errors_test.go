package lib

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsClientError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"insufficient stock", &InsufficientStockError{ProductName: "Bodrum Classic", SKU: "BC-42-TAN", Requested: 3, Available: 1}, true},
		{"variant unavailable", &VariantUnavailableError{VariantID: "abc", Reason: "variant not found"}, true},
		{"empty order", ErrEmptyOrder, true},
		{"conflict", ErrConflict, true},
		{"wrapped conflict", fmt.Errorf("insert failed: %w", ErrConflict), true},
		{"order not found", ErrOrderNotFound, false},
		{"plain error", errors.New("connection refused"), false},
		{"nil", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsClientError(tc.err))
		})
	}
}

func TestMapPgError(t *testing.T) {
	assert.ErrorIs(t, MapPgError(&pgconn.PgError{Code: "23505"}), ErrConflict)
	assert.ErrorIs(t, MapPgError(&pgconn.PgError{Code: "P0002"}), ErrNotFound)

	// Unclassified SQLSTATEs and non-pg errors pass through unchanged.
	deadlock := &pgconn.PgError{Code: "40P01"}
	assert.Equal(t, error(deadlock), MapPgError(deadlock))

	plain := errors.New("broken pipe")
	assert.Equal(t, plain, MapPgError(plain))
}
