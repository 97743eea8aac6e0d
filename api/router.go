package api

import (
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	chiware "github.com/go-chi/chi/v5/middleware"

	"github.com/olivenet-iot/halikarnas-sandals-sub001/api/coupons"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/api/health"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/api/middleware"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/api/orders"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/api/products"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/config"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/database"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/services"
)

func App() chi.Router {
	r := chi.NewRouter()

	// create loggers
	logLevel := gecho.ParseLogLevel(config.GetLogLevel())
	mwLogger := gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(false), gecho.WithLogLevel(logLevel)))
	standardLogger := gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(true), gecho.WithLogLevel(logLevel)))

	// db
	db := database.GetInstance()

	// config
	cfg := config.GetConfig()

	// services
	sm := services.NewServiceManager(standardLogger, cfg, db)

	// Initialize middleware
	mw := middleware.NewMiddleware(cfg, mwLogger, sm.CacheService)

	// Core infra
	r.Use(chiware.RequestID)
	r.Use(chiware.RealIP)
	r.Use(chiware.Recoverer)

	// Limits & security
	r.Use(mw.BodyLimit(1 * 1024 * 1024))
	r.Use(mw.SecurityHeaders())

	// Observability
	r.Use(mw.SetupLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware)

	// CORS (must run before rate limiting so preflights stay cheap)
	r.Use(mw.SetupCORS().Handler)

	// Per-IP request budget
	r.Use(mw.RateLimitMiddleware())

	// Register all routes
	NewRouterManager(
		products.NewProductRoutesManager(standardLogger, sm.ProductService),
		health.NewHealthRoutesManager(sm.HealthService),
		orders.NewOrderRoutesManager(standardLogger, cfg, sm.OrderService, mw),
		coupons.NewCouponRoutesManager(standardLogger, sm.CouponService),
	).RegisterRoutes(r)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		gecho.Success(w,
			gecho.WithMessage("Welcome to the Halikarnas Sandals API"),
			gecho.Send(),
		)
	})

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		gecho.NotFound(w,
			gecho.Send(),
		)
	})

	return r
}
