package orders

import (
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/olivenet-iot/halikarnas-sandals-sub001/lib"
)

// DeleteOrder soft-deletes an order. The row stays for accounting; it just
// disappears from tracking and account listings.
func (orm *OrderRoutesManager) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderIdStr := chi.URLParam(r, "id")
	orderId, err := uuid.Parse(orderIdStr)
	if err != nil {
		orm.logger.Warn("Invalid order ID format", gecho.Field("order_id", orderIdStr))
		gecho.BadRequest(w,
			gecho.WithMessage("error.order.invalidOrderId"),
			gecho.Send(),
		)
		return
	}

	if err := orm.orderService.SoftDeleteOrder(r.Context(), orderId); err != nil {
		if errors.Is(err, lib.ErrOrderNotFound) {
			gecho.NotFound(w,
				gecho.WithMessage("error.order.notFound"),
				gecho.Send(),
			)
			return
		}

		orm.logger.Error("Failed to delete order",
			gecho.Field("error", err),
			gecho.Field("order_id", orderId))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.order.deleteFailed"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.deleted"),
		gecho.WithData(map[string]any{"order_id": orderId}),
		gecho.Send(),
	)
}
