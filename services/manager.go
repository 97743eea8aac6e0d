package services

import (
	"github.com/MonkyMars/gecho"

	"github.com/olivenet-iot/halikarnas-sandals-sub001/database"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/structs"
)

type ServiceManager struct {
	EmailService   *EmailService
	CacheService   *CacheService
	HealthService  *HealthService
	ProductService *ProductService
	CouponService  *CouponService
	OrderService   *OrderService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB) *ServiceManager {
	cacheService := NewCacheService(logger, cfg)
	emailService := NewEmailService(logger, cfg)
	healthService := NewHealthService(logger, db, cacheService)
	productService := NewProductService(logger, db, cacheService)
	couponService := NewCouponService(logger, db)
	orderService := NewOrderService(logger, cfg, db, couponService, emailService, cacheService)

	return &ServiceManager{
		EmailService:   emailService,
		CacheService:   cacheService,
		HealthService:  healthService,
		ProductService: productService,
		CouponService:  couponService,
		OrderService:   orderService,
	}
}
