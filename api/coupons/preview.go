package coupons

import (
	"net/http"

	"github.com/MonkyMars/gecho"

	"github.com/olivenet-iot/halikarnas-sandals-sub001/lib"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/structs"
)

// PreviewCoupon handles POST /coupons/preview. It tells the cart whether a
// code would apply to the given subtotal and for how much, without consuming
// a usage. The response never explains why a code does not apply; checkout
// stays the authority on redemption.
func (crm *CouponRoutesManager) PreviewCoupon(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.PreviewCouponRequest](r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.coupon.invalidRequestBody"),
			gecho.WithData(err),
			gecho.Send(),
		)
		return
	}

	result := crm.couponService.Preview(r.Context(), body.Code, body.SubtotalCents)

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"code":           body.Code,
			"applicable":     result.Applied(),
			"discount_cents": result.DiscountCents,
		}),
		gecho.Send(),
	)
}
