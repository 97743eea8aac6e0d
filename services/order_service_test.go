package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivenet-iot/halikarnas-sandals-sub001/database"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/lib"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/structs"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/structs/tables"
)

func testConfig() *structs.Config {
	return &structs.Config{
		Shipping: &structs.ShippingConfig{
			FlatRateCents:  595,
			FreeAboveCents: 10000,
		},
		Encryption: &structs.EncryptionConfig{
			Key: "0123456789abcdef0123456789abcdef",
		},
	}
}

func newTestOrderService(t *testing.T) (*OrderService, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })

	db := database.NewFromSQL(sqldb)
	logger := gecho.NewDefaultLogger()

	couponService := NewCouponService(logger, db)
	return NewOrderService(logger, testConfig(), db, couponService, nil, nil), mock
}

func variantRows(variantId, productId uuid.UUID, priceCents uint64, stock int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "product_id", "size", "color", "sku", "price_cents", "stock", "created_at", "updated_at",
	}).AddRow(variantId.String(), productId.String(), "42", "tan", "HS-CLAS-42-TAN", int64(priceCents), stock, now, now)
}

func productRows(productId uuid.UUID, priceCents uint64, active bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "brand", "description", "price_cents", "tax_cents", "is_active", "sold_count", "created_at", "updated_at",
	}).AddRow(productId.String(), "Classic Sandal", "Halikarnas", "Handmade leather sandal", int64(priceCents), int64(0), active, int64(0), now, now)
}

func orderRequest(productId, variantId uuid.UUID, quantity int) *structs.OrderRequest {
	return &structs.OrderRequest{
		Items: []structs.OrderItemRequest{
			{ProductID: productId, VariantID: variantId, Quantity: quantity},
		},
		ShippingInfo: structs.ShippingInfo{
			Name:       "Deniz Kaya",
			Email:      "deniz@example.com",
			Phone:      "+905321234567",
			Street:     "Atatürk Cad.",
			HouseNo:    "14",
			PostalCode: "48400",
			City:       "Bodrum",
			Country:    "TR",
		},
		PaymentMethod: "card",
	}
}

func TestShippingCost(t *testing.T) {
	cfg := &structs.ShippingConfig{FlatRateCents: 595, FreeAboveCents: 10000}

	assert.Equal(t, uint64(595), ShippingCost(0, cfg))
	assert.Equal(t, uint64(595), ShippingCost(9999, cfg))
	assert.Equal(t, uint64(0), ShippingCost(10000, cfg))
	assert.Equal(t, uint64(0), ShippingCost(25000, cfg))
}

func TestCreateOrderFromRequestEmptyOrder(t *testing.T) {
	os, mock := newTestOrderService(t)

	_, err := os.CreateOrderFromRequest(context.Background(), &structs.OrderRequest{}, nil)
	assert.ErrorIs(t, err, lib.ErrEmptyOrder)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderFromRequestInsufficientStock(t *testing.T) {
	os, mock := newTestOrderService(t)

	productId := uuid.New()
	variantId := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "product_variants"`).
		WillReturnRows(variantRows(variantId, productId, 4500, 1))
	mock.ExpectQuery(`SELECT (.+) FROM "products"`).
		WillReturnRows(productRows(productId, 4500, true))
	mock.ExpectRollback()

	_, err := os.CreateOrderFromRequest(context.Background(), orderRequest(productId, variantId, 3), nil)

	var stockErr *lib.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, "HS-CLAS-42-TAN", stockErr.SKU)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderFromRequestInactiveProduct(t *testing.T) {
	os, mock := newTestOrderService(t)

	productId := uuid.New()
	variantId := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "product_variants"`).
		WillReturnRows(variantRows(variantId, productId, 4500, 10))
	mock.ExpectQuery(`SELECT (.+) FROM "products"`).
		WillReturnRows(productRows(productId, 4500, false))
	mock.ExpectRollback()

	_, err := os.CreateOrderFromRequest(context.Background(), orderRequest(productId, variantId, 1), nil)

	var variantErr *lib.VariantUnavailableError
	require.ErrorAs(t, err, &variantErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderFromRequestUnknownVariant(t *testing.T) {
	os, mock := newTestOrderService(t)

	productId := uuid.New()
	variantId := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "product_variants"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "product_id", "size", "color", "sku", "price_cents", "stock", "created_at", "updated_at",
		}))
	mock.ExpectQuery(`SELECT (.+) FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "brand", "description", "price_cents", "tax_cents", "is_active", "sold_count", "created_at", "updated_at",
		}))
	mock.ExpectRollback()

	_, err := os.CreateOrderFromRequest(context.Background(), orderRequest(productId, variantId, 1), nil)

	var variantErr *lib.VariantUnavailableError
	require.ErrorAs(t, err, &variantErr)
	assert.Equal(t, "variant not found", variantErr.Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderFromRequestVariantProductMismatch(t *testing.T) {
	os, mock := newTestOrderService(t)

	productId := uuid.New()
	otherProductId := uuid.New()
	variantId := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "product_variants"`).
		WillReturnRows(variantRows(variantId, otherProductId, 4500, 10))
	mock.ExpectQuery(`SELECT (.+) FROM "products"`).
		WillReturnRows(productRows(productId, 4500, true))
	mock.ExpectRollback()

	_, err := os.CreateOrderFromRequest(context.Background(), orderRequest(productId, variantId, 1), nil)

	var variantErr *lib.VariantUnavailableError
	require.ErrorAs(t, err, &variantErr)
	assert.Equal(t, "variant does not belong to product", variantErr.Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderFromRequestSuccess(t *testing.T) {
	os, mock := newTestOrderService(t)

	productId := uuid.New()
	variantId := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "product_variants" AS "pv" WHERE \(pv\.id IN (.+)\) FOR UPDATE`).
		WillReturnRows(variantRows(variantId, productId, 100, 5))
	mock.ExpectQuery(`SELECT (.+) FROM "products" AS "p" WHERE \(p\.id IN (.+)\)`).
		WillReturnRows(productRows(productId, 100, true))
	mock.ExpectExec(`INSERT INTO "orders"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO "order_items"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE "product_variants" (.+)stock = stock - 2(.+)stock >= 2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "products" (.+)sold_count = sold_count \+ 2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "order_status_history" (.+)pending(.+)order created`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	order, err := os.CreateOrderFromRequest(context.Background(), orderRequest(productId, variantId, 2), nil)
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Regexp(t, `^HS-\d{8}-[A-Z0-9]{4}$`, order.OrderNumber)
	assert.Equal(t, tables.OrderStatusPending, order.Status)
	assert.Equal(t, uint64(200), order.SubtotalCents)
	assert.Equal(t, uint64(595), order.ShippingCents)
	assert.Zero(t, order.DiscountCents)
	assert.Equal(t, uint64(795), order.TotalCents)

	// Contact snapshot is stored encrypted.
	assert.NotEqual(t, "deniz@example.com", order.Email)
	assert.NotEqual(t, "Deniz Kaya", order.Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteOrder(t *testing.T) {
	os, mock := newTestOrderService(t)
	orderId := uuid.New()

	mock.ExpectExec(`UPDATE "orders" (.+)"deleted_at" = (.+)deleted_at IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, os.SoftDeleteOrder(context.Background(), orderId))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteOrderUnknownOrAlreadyDeleted(t *testing.T) {
	os, mock := newTestOrderService(t)
	orderId := uuid.New()

	mock.ExpectExec(`UPDATE "orders" (.+)"deleted_at" = (.+)deleted_at IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, os.SoftDeleteOrder(context.Background(), orderId), lib.ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsValidStatusTransition(t *testing.T) {
	tests := []struct {
		from tables.OrderStatus
		to   tables.OrderStatus
		want bool
	}{
		{tables.OrderStatusPending, tables.OrderStatusConfirmed, true},
		{tables.OrderStatusPending, tables.OrderStatusCancelled, true},
		{tables.OrderStatusPending, tables.OrderStatusShipped, false},
		{tables.OrderStatusPending, tables.OrderStatusDelivered, false},
		{tables.OrderStatusConfirmed, tables.OrderStatusProcessing, true},
		{tables.OrderStatusConfirmed, tables.OrderStatusCancelled, true},
		{tables.OrderStatusConfirmed, tables.OrderStatusRefunded, false},
		{tables.OrderStatusProcessing, tables.OrderStatusShipped, true},
		{tables.OrderStatusProcessing, tables.OrderStatusCancelled, true},
		{tables.OrderStatusProcessing, tables.OrderStatusRefunded, true},
		{tables.OrderStatusShipped, tables.OrderStatusDelivered, true},
		{tables.OrderStatusShipped, tables.OrderStatusRefunded, true},
		{tables.OrderStatusShipped, tables.OrderStatusCancelled, false},
		{tables.OrderStatusDelivered, tables.OrderStatusRefunded, true},
		{tables.OrderStatusDelivered, tables.OrderStatusPending, false},
		{tables.OrderStatusCancelled, tables.OrderStatusPending, false},
		{tables.OrderStatusCancelled, tables.OrderStatusConfirmed, false},
		{tables.OrderStatusRefunded, tables.OrderStatusPending, false},
		// Self-transitions are not valid.
		{tables.OrderStatusPending, tables.OrderStatusPending, false},
		{tables.OrderStatusShipped, tables.OrderStatusShipped, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidStatusTransition(tt.from, tt.to))
		})
	}
}
