package orders

import (
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"

	"github.com/olivenet-iot/halikarnas-sandals-sub001/api/health"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/api/middleware"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/lib"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/structs"
)

func (orm *OrderRoutesManager) CreateOrder(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.OrderRequest](r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.order.invalidRequestBody"),
			gecho.WithData(err),
			gecho.Send(),
		)
		return
	}

	// Link the order to an account when the caller is logged in; guest
	// checkout leaves this nil.
	var userId *uuid.UUID
	if claims, ok := middleware.GetClaimsFromContext(r.Context()); ok {
		userId = &claims.Sub
	}

	order, err := orm.orderService.CreateOrderFromRequest(r.Context(), body, userId)
	if err != nil {
		var stockErr *lib.InsufficientStockError
		if errors.As(err, &stockErr) {
			health.OrdersRejectedStock.Inc()
			gecho.BadRequest(w,
				gecho.WithMessage("error.order.insufficientStock"),
				gecho.WithData(map[string]any{
					"product":   stockErr.ProductName,
					"sku":       stockErr.SKU,
					"requested": stockErr.Requested,
					"available": stockErr.Available,
				}),
				gecho.Send(),
			)
			return
		}

		var variantErr *lib.VariantUnavailableError
		if errors.As(err, &variantErr) {
			gecho.BadRequest(w,
				gecho.WithMessage("error.order.productUnavailable"),
				gecho.WithData(map[string]string{
					"variant_id": variantErr.VariantID,
					"reason":     variantErr.Reason,
				}),
				gecho.Send(),
			)
			return
		}

		if errors.Is(err, lib.ErrEmptyOrder) {
			gecho.BadRequest(w,
				gecho.WithMessage("error.order.emptyOrder"),
				gecho.Send(),
			)
			return
		}

		// Remaining client-classified failures, e.g. a unique-constraint
		// conflict mapped by the pg error taxonomy.
		if lib.IsClientError(err) {
			orm.logger.Warn("Order rejected", gecho.Field("error", err))
			gecho.BadRequest(w,
				gecho.WithMessage("error.order.conflict"),
				gecho.Send(),
			)
			return
		}

		orm.logger.Error("Failed to create order", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.order.creationFailed"),
			gecho.Send(),
		)
		return
	}

	health.OrdersCreated.Inc()

	gecho.Success(w,
		gecho.WithMessage("success.order.created"),
		gecho.WithData(map[string]any{
			"order_number": order.OrderNumber,
			"order_id":     order.Id,
			"status":       order.Status,
			"subtotal":     order.SubtotalCents,
			"shipping":     order.ShippingCents,
			"discount":     order.DiscountCents,
			"total":        order.TotalCents,
			"coupon_code":  order.CouponCode,
		}),
		gecho.Send(),
	)
}
