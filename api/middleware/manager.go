package middleware

import (
	"github.com/MonkyMars/gecho"

	"github.com/olivenet-iot/halikarnas-sandals-sub001/services"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/structs"
)

type Middleware struct {
	cfg          *structs.Config
	logger       *gecho.Logger
	cacheService *services.CacheService
}

func NewMiddleware(cfg *structs.Config, logger *gecho.Logger, cacheService *services.CacheService) *Middleware {
	return &Middleware{
		cfg:          cfg,
		logger:       logger,
		cacheService: cacheService,
	}
}
