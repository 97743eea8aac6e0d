package orders

import (
	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"

	"github.com/olivenet-iot/halikarnas-sandals-sub001/api/middleware"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/services"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/structs"
)

type OrderRoutesManager struct {
	logger       *gecho.Logger
	cfg          *structs.Config
	orderService *services.OrderService
	mw           *middleware.Middleware
}

func NewOrderRoutesManager(
	logger *gecho.Logger,
	cfg *structs.Config,
	orderService *services.OrderService,
	mw *middleware.Middleware,
) *OrderRoutesManager {
	return &OrderRoutesManager{
		logger:       logger,
		cfg:          cfg,
		orderService: orderService,
		mw:           mw,
	}
}

func (orm *OrderRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.With(orm.mw.OptionalAuthMiddleware).Post("/create", orm.CreateOrder)

		r.With(orm.mw.StrictRateLimitMiddleware(
			orm.cfg.RateLimit.TrackLimit,
			orm.cfg.RateLimit.TrackWindow,
		)).Post("/track", orm.TrackOrder)

		r.Group(func(r chi.Router) {
			r.Use(orm.mw.UserAuthMiddleware)
			r.Get("/me", orm.GetMyOrders)
			r.Get("/me/{id}", orm.GetMyOrderById)
		})

		r.Group(func(r chi.Router) {
			r.Use(orm.mw.StaffAuthMiddleware)
			r.Patch("/{id}/status", orm.UpdateOrderStatus)
			r.Delete("/{id}", orm.DeleteOrder)
		})
	})
}
