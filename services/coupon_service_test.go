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
	"github.com/olivenet-iot/halikarnas-sandals-sub001/structs"
)

func newTestCouponService(t *testing.T) (*CouponService, *database.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })

	db := database.NewFromSQL(sqldb)
	return NewCouponService(gecho.NewDefaultLogger(), db), db, mock
}

func couponColumns() []string {
	return []string{
		"id", "code", "type", "value", "min_order_cents", "max_discount_cents",
		"usage_limit", "used_count", "is_active", "expires_at", "created_at", "updated_at",
	}
}

func TestResolveNoCode(t *testing.T) {
	cs, db, mock := newTestCouponService(t)

	result := cs.Resolve(context.Background(), db, "", 5000)

	assert.Equal(t, structs.CouponIgnored, result.Outcome)
	assert.Equal(t, structs.CouponReasonNoCode, result.Reason)
	assert.Zero(t, result.DiscountCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveUnknownCode(t *testing.T) {
	cs, db, mock := newTestCouponService(t)

	mock.ExpectQuery(`SELECT (.+) FROM "coupons"`).
		WillReturnRows(sqlmock.NewRows(couponColumns()))

	result := cs.Resolve(context.Background(), db, "NOPE", 5000)

	assert.Equal(t, structs.CouponIgnored, result.Outcome)
	assert.Equal(t, structs.CouponReasonNotFound, result.Reason)
	assert.False(t, result.Applied())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveExpiredCoupon(t *testing.T) {
	cs, db, mock := newTestCouponService(t)

	now := time.Now()
	expired := now.Add(-24 * time.Hour)

	mock.ExpectQuery(`SELECT (.+) FROM "coupons"`).
		WillReturnRows(sqlmock.NewRows(couponColumns()).
			AddRow(uuid.New().String(), "SUMMER10", "percentage", int64(10), int64(0), int64(0), 0, 0, true, expired, now, now))

	result := cs.Resolve(context.Background(), db, "SUMMER10", 5000)

	assert.Equal(t, structs.CouponIgnored, result.Outcome)
	assert.Equal(t, structs.CouponReasonExpired, result.Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveBelowMinimum(t *testing.T) {
	cs, db, mock := newTestCouponService(t)

	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM "coupons"`).
		WillReturnRows(sqlmock.NewRows(couponColumns()).
			AddRow(uuid.New().String(), "BIGSPEND", "fixed", int64(1500), int64(10000), int64(0), 0, 0, true, nil, now, now))

	result := cs.Resolve(context.Background(), db, "BIGSPEND", 9999)

	assert.Equal(t, structs.CouponIgnored, result.Outcome)
	assert.Equal(t, structs.CouponReasonBelowMinimum, result.Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveApplied(t *testing.T) {
	cs, db, mock := newTestCouponService(t)

	now := time.Now()
	couponId := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "coupons"`).
		WillReturnRows(sqlmock.NewRows(couponColumns()).
			AddRow(couponId.String(), "SUMMER10", "percentage", int64(10), int64(0), int64(0), 100, 3, true, nil, now, now))
	mock.ExpectExec(`UPDATE "coupons"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	result := cs.Resolve(context.Background(), db, "SUMMER10", 5000)

	require.Equal(t, structs.CouponApplied, result.Outcome)
	assert.True(t, result.Applied())
	assert.Equal(t, uint64(500), result.DiscountCents)
	require.NotNil(t, result.CouponID)
	assert.Equal(t, couponId, *result.CouponID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveExhaustedOnIncrement(t *testing.T) {
	cs, db, mock := newTestCouponService(t)

	now := time.Now()

	// The read sees one usage left, but the guarded increment loses the
	// race and affects zero rows.
	mock.ExpectQuery(`SELECT (.+) FROM "coupons"`).
		WillReturnRows(sqlmock.NewRows(couponColumns()).
			AddRow(uuid.New().String(), "LAST1", "fixed", int64(500), int64(0), int64(0), 5, 4, true, nil, now, now))
	mock.ExpectExec(`UPDATE "coupons"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	result := cs.Resolve(context.Background(), db, "LAST1", 5000)

	assert.Equal(t, structs.CouponIgnored, result.Outcome)
	assert.Equal(t, structs.CouponReasonExhausted, result.Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreviewAppliedWithoutClaim(t *testing.T) {
	cs, _, mock := newTestCouponService(t)

	now := time.Now()
	couponId := uuid.New()

	// One SELECT only: previewing must never touch used_count.
	mock.ExpectQuery(`SELECT (.+) FROM "coupons"`).
		WillReturnRows(sqlmock.NewRows(couponColumns()).
			AddRow(couponId.String(), "SUMMER10", "percentage", int64(10), int64(0), int64(0), 100, 3, true, nil, now, now))

	result := cs.Preview(context.Background(), "SUMMER10", 5000)

	require.Equal(t, structs.CouponApplied, result.Outcome)
	assert.Equal(t, uint64(500), result.DiscountCents)
	require.NotNil(t, result.CouponID)
	assert.Equal(t, couponId, *result.CouponID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreviewUnknownCode(t *testing.T) {
	cs, _, mock := newTestCouponService(t)

	mock.ExpectQuery(`SELECT (.+) FROM "coupons"`).
		WillReturnRows(sqlmock.NewRows(couponColumns()))

	result := cs.Preview(context.Background(), "NOPE", 5000)

	assert.Equal(t, structs.CouponIgnored, result.Outcome)
	assert.Equal(t, structs.CouponReasonNotFound, result.Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}
