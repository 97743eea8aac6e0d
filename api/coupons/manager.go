package coupons

import (
	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"

	"github.com/olivenet-iot/halikarnas-sandals-sub001/services"
)

type CouponRoutesManager struct {
	logger        *gecho.Logger
	couponService *services.CouponService
}

func NewCouponRoutesManager(logger *gecho.Logger, couponService *services.CouponService) *CouponRoutesManager {
	return &CouponRoutesManager{
		logger:        logger,
		couponService: couponService,
	}
}

func (crm *CouponRoutesManager) RegisterRoutes(r chi.Router) {
	r.Post("/coupons/preview", crm.PreviewCoupon)
}
