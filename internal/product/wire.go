package product

import (
	"storefront/internal/config"
	"storefront/internal/infrastructure/cache"
	"storefront/internal/product/controller"
	"storefront/internal/product/service"
	"storefront/internal/product/usecase"

	"go.uber.org/zap"
)

// Module exposes the product catalog's HTTP controller and the service the
// health check pings.
type Module struct {
	Controller *controller.Controller
	Service    *service.ProductService
}

// NewModule wires the catalog over repo. resultCache may be nil to disable
// result caching.
func NewModule(repo service.Repository, resultCache *cache.MemoryCache, cfg config.Config, logger *zap.Logger) (*Module, error) {
	var c service.Cache
	if resultCache != nil {
		c = resultCache
	}

	svc := service.NewService(repo, c, logger, cfg.Search.Timeout)
	uc := usecase.NewSearchUseCase(svc, usecase.Limits{
		DefaultSearch: cfg.Search.DefaultSearchLimit,
		DefaultList:   cfg.Search.DefaultListLimit,
		Max:           cfg.Search.MaxLimit,
	})

	ctrl, err := controller.NewController(uc, cfg.GraphQL.MaxDepth, logger)
	if err != nil {
		return nil, err
	}

	return &Module{
		Controller: ctrl,
		Service:    svc,
	}, nil
}
