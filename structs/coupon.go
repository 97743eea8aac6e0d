package structs

import "github.com/google/uuid"

// CouponOutcome is the tagged result of resolving a coupon code during
// checkout. An invalid code never fails the order; it just resolves to the
// ignored branch with a reason, so the two paths stay distinguishable.
type CouponOutcome string

const (
	CouponApplied CouponOutcome = "applied"
	CouponIgnored CouponOutcome = "ignored"
)

// Ignore reasons surfaced in logs (never to the customer).
const (
	CouponReasonNotFound      = "coupon not found"
	CouponReasonInactive      = "coupon inactive"
	CouponReasonExpired       = "coupon expired"
	CouponReasonExhausted     = "coupon usage limit reached"
	CouponReasonBelowMinimum  = "order below coupon minimum"
	CouponReasonNoCode        = "no coupon code supplied"
	CouponReasonLookupFailure = "coupon lookup failed"
)

type CouponResult struct {
	Outcome       CouponOutcome
	CouponID      *uuid.UUID
	Code          string
	DiscountCents uint64
	Reason        string
}

func (cr CouponResult) Applied() bool {
	return cr.Outcome == CouponApplied
}

// PreviewCouponRequest is the cart-side coupon check before checkout.
type PreviewCouponRequest struct {
	Code          string `json:"code" validate:"required,max=64"`
	SubtotalCents uint64 `json:"subtotal_cents" validate:"required,gt=0"`
}
