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
	"github.com/spec-kit/commerce-service/internal/events"
	"github.com/spec-kit/commerce-service/internal/observability"
	"github.com/spec-kit/commerce-service/internal/persistence"
	"github.com/spec-kit/commerce-service/internal/repository"
	"github.com/spec-kit/commerce-service/internal/repository/memory"
	"github.com/spec-kit/commerce-service/internal/service"
	"github.com/spec-kit/commerce-service/internal/worker"
)

func main() {
	cfg, err := config.Load("user-service", "8700")
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
		userRepo       repository.UserRepository
		credentialRepo repository.CredentialRepository
		accountRepo    repository.AccountRepository
	)
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.AccountMigrations, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		userRepo = repository.NewUserRepository(pg.PoolHandle())
		credentialRepo = repository.NewCredentialRepository(pg.PoolHandle())
		accountRepo = repository.NewAccountRepository(pg.PoolHandle())
	} else {
		store := memory.NewStore()
		userRepo = memory.NewUserRepository(store)
		credentialRepo = memory.NewCredentialRepository(store)
		accountRepo = memory.NewAccountRepository(store)
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, cfg.App.Name))

	dependencies := map[string]handlers.Pinger{"postgres": pg}
	if cfg.Cache.Enabled {
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		dependencies["redis"] = redis

		cachedAccounts := cache.NewAccountRepository(accountRepo, cache.NewRedisBackend(redis.Client), "user", cfg.Cache.TTL(), logger)
		accountRepo = cachedAccounts
		// users embed their credential, so credential changes invalidate them.
		cache.RegisterInvalidation(dispatcher, logger, map[events.Resource][]cache.Flusher{
			events.ResourceCredential: {cachedAccounts},
		})
	}

	deps := service.AccountDependencies{
		AccountRepo:    accountRepo,
		CredentialRepo: credentialRepo,
		UserRepo:       userRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
		BcryptCost:     cfg.Auth.BcryptCost,
	}
	userService := service.NewUserService(deps)
	if err := userService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		logger.Fatal("failed to seed admin account", zap.Error(err))
	}
	credentialService := service.NewCredentialService(deps)
	authService := service.NewAuthService(cfg.Auth, credentialRepo)

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(cfg, logger, metrics)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		ContextPath:    cfg.App.ContextPath,
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, dependencies),
		Users:          handlers.NewUsersHandler(userService),
		Credentials:    handlers.NewCredentialsHandler(credentialService),
		Auth:           handlers.NewAuthHandler(authService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), credentialRepo),
		AuthRequired:   cfg.Auth.Required,
	})

	httptransport.Serve(app, cfg.App.Addr(), logger)
}
