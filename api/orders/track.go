package orders

import (
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"

	"github.com/olivenet-iot/halikarnas-sandals-sub001/lib"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/structs"
)

// TrackOrder looks up an order by order number and email. Unknown numbers
// and wrong emails both return the same not-found response.
func (orm *OrderRoutesManager) TrackOrder(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.TrackOrderRequest](r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.order.invalidRequestBody"),
			gecho.WithData(err),
			gecho.Send(),
		)
		return
	}

	order, err := orm.orderService.TrackOrder(r.Context(), body.Email, body.OrderNumber)
	if err != nil {
		if errors.Is(err, lib.ErrOrderNotFound) {
			gecho.NotFound(w,
				gecho.WithMessage("error.order.notFound"),
				gecho.Send(),
			)
			return
		}

		orm.logger.Error("Failed to track order", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.order.trackingFailed"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"order_number":    order.OrderNumber,
			"status":          order.Status,
			"tracking_number": order.TrackingNumber,
			"items":           order.Items,
			"history":         order.History,
			"subtotal":        order.SubtotalCents,
			"shipping":        order.ShippingCents,
			"discount":        order.DiscountCents,
			"total":           order.TotalCents,
			"created_at":      order.CreatedAt,
			"updated_at":      order.UpdatedAt,
		}),
		gecho.Send(),
	)
}
