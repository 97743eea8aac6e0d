package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type CouponType string

const (
	CouponTypePercentage CouponType = "percentage"
	CouponTypeFixed      CouponType = "fixed"
)

type Coupon struct {
	bun.BaseModel `bun:"table:coupons,alias:c"`

	Id        uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Code      string     `bun:"code,notnull,unique" json:"code"`
	Type      CouponType `bun:"type,notnull" json:"type" validate:"required,oneof=percentage fixed"`

	// Value is percent (0-100) for percentage coupons, cents for fixed ones.
	Value uint64 `bun:"value,notnull" json:"value"`

	MinOrderCents    uint64 `bun:"min_order_cents,notnull,default:0" json:"min_order_cents"`
	MaxDiscountCents uint64 `bun:"max_discount_cents,notnull,default:0" json:"max_discount_cents"` // 0 = uncapped

	// UsageLimit 0 means unlimited; UsedCount is incremented atomically on
	// redemption inside the order transaction.
	UsageLimit int `bun:"usage_limit,notnull,default:0" json:"usage_limit"`
	UsedCount  int `bun:"used_count,notnull,default:0" json:"used_count"`

	IsActive  bool       `bun:"is_active,notnull" json:"is_active"`
	ExpiresAt *time.Time `bun:"expires_at,nullzero" json:"expires_at,omitempty"`
	CreatedAt time.Time  `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,notnull,default:now()" json:"updated_at"`
}

// DiscountFor computes the discount this coupon grants on a subtotal,
// clamped to MaxDiscountCents when set and never above the subtotal itself.
func (c *Coupon) DiscountFor(subtotalCents uint64) uint64 {
	var discount uint64
	switch c.Type {
	case CouponTypePercentage:
		discount = subtotalCents * c.Value / 100
	case CouponTypeFixed:
		discount = c.Value
	}

	if c.MaxDiscountCents > 0 && discount > c.MaxDiscountCents {
		discount = c.MaxDiscountCents
	}
	if discount > subtotalCents {
		discount = subtotalCents
	}
	return discount
}

// Redeemable reports whether the coupon can be applied right now to an order
// with the given subtotal. The returned reason is empty when redeemable.
func (c *Coupon) Redeemable(subtotalCents uint64, now time.Time) (bool, string) {
	if !c.IsActive {
		return false, "coupon inactive"
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return false, "coupon expired"
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return false, "coupon usage limit reached"
	}
	if subtotalCents < c.MinOrderCents {
		return false, "order below coupon minimum"
	}
	return true, ""
}
