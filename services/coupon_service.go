package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun"

	"github.com/olivenet-iot/halikarnas-sandals-sub001/database"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/lib"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/structs"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/structs/tables"
)

type CouponService struct {
	logger *gecho.Logger
	db     *database.DB
}

func NewCouponService(logger *gecho.Logger, db *database.DB) *CouponService {
	return &CouponService{
		logger: logger,
		db:     db,
	}
}

// Resolve looks up a coupon code against an order subtotal and, when the
// coupon is redeemable, claims one usage. The lookup and the usage increment
// run on the caller's transaction so redemption commits or rolls back with
// the order itself.
//
// Invalid codes never fail checkout: every non-applied path returns the
// ignored branch with a reason, and the caller proceeds with zero discount.
func (cs *CouponService) Resolve(ctx context.Context, idb bun.IDB, code string, subtotalCents uint64) structs.CouponResult {
	if code == "" {
		return structs.CouponResult{Outcome: structs.CouponIgnored, Reason: structs.CouponReasonNoCode}
	}

	ignored := func(reason string) structs.CouponResult {
		cs.logger.Warn("Coupon ignored",
			gecho.Field("code", code),
			gecho.Field("reason", reason))
		return structs.CouponResult{Outcome: structs.CouponIgnored, Code: code, Reason: reason}
	}

	coupon := new(tables.Coupon)
	err := idb.NewSelect().
		Model(coupon).
		Where("code = ?", code).
		For("UPDATE").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ignored(structs.CouponReasonNotFound)
		}
		cs.logger.Error("Coupon lookup failed",
			gecho.Field("code", code),
			gecho.Field("error", lib.MapPgError(err)))
		return ignored(structs.CouponReasonLookupFailure)
	}

	if ok, reason := coupon.Redeemable(subtotalCents, time.Now()); !ok {
		return ignored(reason)
	}

	// Claim a usage. The guard re-checks the limit so two concurrent
	// redemptions of the last slot cannot both succeed.
	res, err := idb.NewUpdate().
		Model((*tables.Coupon)(nil)).
		Set("used_count = used_count + 1").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", coupon.Id).
		Where("usage_limit = 0 OR used_count < usage_limit").
		Exec(ctx)
	if err != nil {
		cs.logger.Error("Coupon usage increment failed",
			gecho.Field("code", code),
			gecho.Field("error", lib.MapPgError(err)))
		return ignored(structs.CouponReasonLookupFailure)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ignored(structs.CouponReasonExhausted)
	}

	discount := coupon.DiscountFor(subtotalCents)

	cs.logger.Info("Coupon applied",
		gecho.Field("code", code),
		gecho.Field("coupon_id", coupon.Id),
		gecho.Field("discount_cents", discount))

	return structs.CouponResult{
		Outcome:       structs.CouponApplied,
		CouponID:      &coupon.Id,
		Code:          coupon.Code,
		DiscountCents: discount,
	}
}

// GetByCode fetches a coupon without claiming usage; nil when unknown.
func (cs *CouponService) GetByCode(ctx context.Context, code string) (*tables.Coupon, error) {
	coupon, err := database.Query[tables.Coupon](cs.db).
		Where("code", code).
		First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return coupon, nil
}

// Preview evaluates a coupon against a subtotal without claiming a usage.
// Backs the cart preview, so a shopper sees the discount before checkout;
// the authoritative claim still happens inside the order transaction.
func (cs *CouponService) Preview(ctx context.Context, code string, subtotalCents uint64) structs.CouponResult {
	if code == "" {
		return structs.CouponResult{Outcome: structs.CouponIgnored, Reason: structs.CouponReasonNoCode}
	}

	coupon, err := cs.GetByCode(ctx, code)
	if err != nil {
		cs.logger.Error("Coupon preview lookup failed",
			gecho.Field("code", code),
			gecho.Field("error", err))
		return structs.CouponResult{Outcome: structs.CouponIgnored, Code: code, Reason: structs.CouponReasonLookupFailure}
	}
	if coupon == nil {
		return structs.CouponResult{Outcome: structs.CouponIgnored, Code: code, Reason: structs.CouponReasonNotFound}
	}

	if ok, reason := coupon.Redeemable(subtotalCents, time.Now()); !ok {
		return structs.CouponResult{Outcome: structs.CouponIgnored, Code: code, Reason: reason}
	}

	return structs.CouponResult{
		Outcome:       structs.CouponApplied,
		CouponID:      &coupon.Id,
		Code:          coupon.Code,
		DiscountCents: coupon.DiscountFor(subtotalCents),
	}
}
