package tables

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDiscountForPercentage(t *testing.T) {
	coupon := &Coupon{Type: CouponTypePercentage, Value: 10}

	assert.Equal(t, uint64(500), coupon.DiscountFor(5000))
	assert.Equal(t, uint64(0), coupon.DiscountFor(0))
}

func TestDiscountForFixed(t *testing.T) {
	coupon := &Coupon{Type: CouponTypeFixed, Value: 1000}

	assert.Equal(t, uint64(1000), coupon.DiscountFor(5000))
}

func TestDiscountForCappedAtMax(t *testing.T) {
	coupon := &Coupon{Type: CouponTypePercentage, Value: 50, MaxDiscountCents: 2000}

	// 50% of 10000 is 5000, capped at 2000.
	assert.Equal(t, uint64(2000), coupon.DiscountFor(10000))
}

func TestDiscountForNeverExceedsSubtotal(t *testing.T) {
	coupon := &Coupon{Type: CouponTypeFixed, Value: 8000}

	assert.Equal(t, uint64(3000), coupon.DiscountFor(3000))
}

func TestRedeemable(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		coupon   Coupon
		subtotal uint64
		want     bool
		reason   string
	}{
		{
			name:     "active unrestricted",
			coupon:   Coupon{IsActive: true},
			subtotal: 1000,
			want:     true,
		},
		{
			name:     "inactive",
			coupon:   Coupon{IsActive: false},
			subtotal: 1000,
			want:     false,
			reason:   "coupon inactive",
		},
		{
			name:     "expired",
			coupon:   Coupon{IsActive: true, ExpiresAt: &past},
			subtotal: 1000,
			want:     false,
			reason:   "coupon expired",
		},
		{
			name:     "not yet expired",
			coupon:   Coupon{IsActive: true, ExpiresAt: &future},
			subtotal: 1000,
			want:     true,
		},
		{
			name:     "usage limit reached",
			coupon:   Coupon{IsActive: true, UsageLimit: 5, UsedCount: 5},
			subtotal: 1000,
			want:     false,
			reason:   "coupon usage limit reached",
		},
		{
			name:     "usage remaining",
			coupon:   Coupon{IsActive: true, UsageLimit: 5, UsedCount: 4},
			subtotal: 1000,
			want:     true,
		},
		{
			name:     "below minimum",
			coupon:   Coupon{IsActive: true, MinOrderCents: 5000},
			subtotal: 4999,
			want:     false,
			reason:   "order below coupon minimum",
		},
		{
			name:     "exactly at minimum",
			coupon:   Coupon{IsActive: true, MinOrderCents: 5000},
			subtotal: 5000,
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := tt.coupon.Redeemable(tt.subtotal, now)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}
