package services

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivenet-iot/halikarnas-sandals-sub001/lib"
)

func orderColumns() []string {
	return []string{
		"id", "order_number", "user_id",
		"name", "email", "phone", "note",
		"street", "house_no", "postal_code", "city", "country",
		"payment_method", "payment_status",
		"subtotal_cents", "shipping_cents", "discount_cents", "tax_cents", "total_cents",
		"coupon_id", "coupon_code", "tracking_number",
		"status", "created_at", "updated_at", "deleted_at",
	}
}

func orderItemColumns() []string {
	return []string{
		"id", "order_id", "product_id", "variant_id", "quantity",
		"unit_price", "unit_tax", "line_total",
		"product_name", "size", "color", "sku",
	}
}

func orderHistoryColumns() []string {
	return []string{"id", "order_id", "status", "note", "created_at"}
}

func encryptedOrderRow(t *testing.T, orderId uuid.UUID, orderNumber, email string) []driver.Value {
	t.Helper()

	key := testConfig().Encryption.Key
	enc := func(s string) string {
		out, err := lib.Encrypt(s, key)
		require.NoError(t, err)
		return out
	}

	now := time.Now()
	return []driver.Value{
		orderId.String(), orderNumber, nil,
		enc("Deniz Kaya"), enc(email), enc("+905321234567"), "",
		enc("Atatürk Cad."), enc("14"), enc("48400"), enc("Bodrum"), "TR",
		"card", "unpaid",
		int64(9000), int64(595), int64(0), int64(0), int64(9595),
		nil, "", "",
		"pending", now, now, nil,
	}
}

func TestTrackOrderUnknownNumber(t *testing.T) {
	os, mock := newTestOrderService(t)

	mock.ExpectQuery(`SELECT (.+) FROM "orders"`).
		WillReturnRows(sqlmock.NewRows(orderColumns()))

	_, err := os.TrackOrder(context.Background(), "deniz@example.com", "HS-20260101-ZZZZ")
	assert.ErrorIs(t, err, lib.ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackOrderWrongEmailSameError(t *testing.T) {
	os, mock := newTestOrderService(t)

	orderId := uuid.New()
	row := encryptedOrderRow(t, orderId, "HS-20260101-AAAA", "deniz@example.com")

	mock.ExpectQuery(`SELECT (.+) FROM "orders"`).
		WillReturnRows(sqlmock.NewRows(orderColumns()).AddRow(row...))
	mock.ExpectQuery(`SELECT (.+) FROM "order_items"`).
		WillReturnRows(sqlmock.NewRows(orderItemColumns()))
	mock.ExpectQuery(`SELECT (.+) FROM "order_status_history"`).
		WillReturnRows(sqlmock.NewRows(orderHistoryColumns()))

	// Wrong email yields the same generic error as an unknown number.
	_, err := os.TrackOrder(context.Background(), "someone.else@example.com", "HS-20260101-AAAA")
	assert.ErrorIs(t, err, lib.ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackOrderMatchDecryptsAndNormalizesEmail(t *testing.T) {
	os, mock := newTestOrderService(t)

	orderId := uuid.New()
	row := encryptedOrderRow(t, orderId, "HS-20260101-AAAA", "deniz@example.com")

	mock.ExpectQuery(`SELECT (.+) FROM "orders"`).
		WillReturnRows(sqlmock.NewRows(orderColumns()).AddRow(row...))
	mock.ExpectQuery(`SELECT (.+) FROM "order_items"`).
		WillReturnRows(sqlmock.NewRows(orderItemColumns()))
	mock.ExpectQuery(`SELECT (.+) FROM "order_status_history"`).
		WillReturnRows(sqlmock.NewRows(orderHistoryColumns()))

	// Case and surrounding whitespace are forgiven on the email match.
	order, err := os.TrackOrder(context.Background(), "  DENIZ@Example.COM ", "HS-20260101-AAAA")
	require.NoError(t, err)
	assert.Equal(t, "HS-20260101-AAAA", order.OrderNumber)
	assert.Equal(t, "deniz@example.com", order.Email)
	assert.Equal(t, "Deniz Kaya", order.Name)
	assert.Equal(t, "Bodrum", order.City)
	assert.NoError(t, mock.ExpectationsWereMet())
}
