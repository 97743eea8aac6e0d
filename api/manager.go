package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/olivenet-iot/halikarnas-sandals-sub001/api/coupons"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/api/health"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/api/orders"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/api/products"
)

type routerManager struct {
	productRoutes *products.ProductRoutesManager
	healthRoutes  *health.HealthRoutesManager
	orderRoutes   *orders.OrderRoutesManager
	couponRoutes  *coupons.CouponRoutesManager
}

func NewRouterManager(
	productRoutes *products.ProductRoutesManager,
	healthRoutes *health.HealthRoutesManager,
	orderRoutes *orders.OrderRoutesManager,
	couponRoutes *coupons.CouponRoutesManager,
) *routerManager {
	return &routerManager{
		productRoutes: productRoutes,
		healthRoutes:  healthRoutes,
		orderRoutes:   orderRoutes,
		couponRoutes:  couponRoutes,
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.productRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
	rm.orderRoutes.RegisterRoutes(r)
	rm.couponRoutes.RegisterRoutes(r)
}
