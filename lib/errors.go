package lib

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Database errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)

// Order placement errors
var (
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyOrder    = errors.New("order contains no items")
)

// Auth errors
var (
	ErrInvalidToken = errors.New("invalid token")
)

// InsufficientStockError names the line item that could not be fulfilled so
// the rejection can identify the offending item to the caller.
type InsufficientStockError struct {
	ProductName string
	SKU         string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s): requested %d, available %d",
		e.ProductName, e.SKU, e.Requested, e.Available)
}

// VariantUnavailableError covers a missing variant or an inactive parent
// product referenced by a cart line.
type VariantUnavailableError struct {
	VariantID string
	Reason    string
}

func (e *VariantUnavailableError) Error() string {
	return fmt.Sprintf("variant %s unavailable: %s", e.VariantID, e.Reason)
}

// IsClientError reports whether an order placement failure should surface as
// a 400-class rejection instead of an internal error.
func IsClientError(err error) bool {
	var stockErr *InsufficientStockError
	var variantErr *VariantUnavailableError
	return errors.As(err, &stockErr) ||
		errors.As(err, &variantErr) ||
		errors.Is(err, ErrEmptyOrder) ||
		errors.Is(err, ErrConflict)
}

func MapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code { // SQLSTATE
		case "23505": // unique_violation
			return ErrConflict
		case "P0002": // no_data_found
			return ErrNotFound
		}
	}
	return err
}
