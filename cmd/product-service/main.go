package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/commerce-service/internal/api/http"
	"github.com/spec-kit/commerce-service/internal/api/http/handlers"
	"github.com/spec-kit/commerce-service/internal/auth"
	"github.com/spec-kit/commerce-service/internal/cache"
	"github.com/spec-kit/commerce-service/internal/config"
	"github.com/spec-kit/commerce-service/internal/domain"
	"github.com/spec-kit/commerce-service/internal/events"
	"github.com/spec-kit/commerce-service/internal/observability"
	"github.com/spec-kit/commerce-service/internal/persistence"
	"github.com/spec-kit/commerce-service/internal/repository"
	"github.com/spec-kit/commerce-service/internal/repository/memory"
	"github.com/spec-kit/commerce-service/internal/service"
	"github.com/spec-kit/commerce-service/internal/worker"
)

func main() {
	cfg, err := config.Load("product-service", "8500")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var (
		categoryRepo repository.CategoryRepository
		productRepo  repository.Repository[domain.Product]
	)
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.CatalogMigrations, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		categoryRepo = repository.NewCategoryRepository(pg.PoolHandle())
		productRepo = repository.NewProductRepository(pg.PoolHandle())
	} else {
		store := memory.NewStore()
		categoryRepo = memory.NewCategoryRepository(store)
		productRepo = memory.NewProductRepository(store)
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, cfg.App.Name))

	dependencies := map[string]handlers.Pinger{"postgres": pg}
	if cfg.Cache.Enabled {
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		dependencies["redis"] = redis

		cachedProducts := cache.NewRepository(productRepo, cache.NewRedisBackend(redis.Client), "product", cfg.Cache.TTL(),
			func(p *domain.Product) int { return p.ID }, logger)
		productRepo = cachedProducts
		// products embed their category, so category changes invalidate them.
		cache.RegisterInvalidation(dispatcher, logger, map[events.Resource][]cache.Flusher{
			events.ResourceCategory: {cachedProducts},
		})
	}

	deps := service.CatalogDependencies{
		ProductRepo:  productRepo,
		CategoryRepo: categoryRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	}
	productService := service.NewProductService(deps)
	categoryService := service.NewCategoryService(deps)

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(cfg, logger, metrics)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		ContextPath:    cfg.App.ContextPath,
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, dependencies),
		Products:       handlers.NewProductsHandler(productService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		AuthMiddleware: auth.NewAuthMiddleware(auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes), nil),
		AuthRequired:   cfg.Auth.Required,
	})

	httptransport.Serve(app, cfg.App.Addr(), logger)
}
