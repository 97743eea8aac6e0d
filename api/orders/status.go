package orders

import (
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/olivenet-iot/halikarnas-sandals-sub001/lib"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/structs"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/structs/tables"
)

// UpdateOrderStatus moves an order through its lifecycle. Invalid
// transitions are rejected without touching the order.
func (orm *OrderRoutesManager) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
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

	body, err := lib.ExtractAndValidateBody[structs.UpdateOrderStatusRequest](r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.order.invalidRequestBody"),
			gecho.WithData(err),
			gecho.Send(),
		)
		return
	}

	err = orm.orderService.UpdateOrderStatus(r.Context(), orderId, tables.OrderStatus(body.Status), body.Note, body.TrackingNumber)
	if err != nil {
		if errors.Is(err, lib.ErrOrderNotFound) {
			gecho.NotFound(w,
				gecho.WithMessage("error.order.notFound"),
				gecho.Send(),
			)
			return
		}

		if errors.Is(err, lib.ErrConflict) {
			gecho.BadRequest(w,
				gecho.WithMessage("error.order.invalidStatusTransition"),
				gecho.WithData(map[string]string{"error": err.Error()}),
				gecho.Send(),
			)
			return
		}

		orm.logger.Error("Failed to update order status",
			gecho.Field("error", err),
			gecho.Field("order_id", orderId))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.order.statusUpdateFailed"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.statusUpdated"),
		gecho.WithData(map[string]any{
			"order_id": orderId,
			"status":   body.Status,
		}),
		gecho.Send(),
	)
}
