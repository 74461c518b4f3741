package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/cms-service/internal/api/http"
	"github.com/spec-kit/cms-service/internal/api/http/handlers"
	"github.com/spec-kit/cms-service/internal/auth"
	"github.com/spec-kit/cms-service/internal/config"
	"github.com/spec-kit/cms-service/internal/events"
	"github.com/spec-kit/cms-service/internal/observability"
	"github.com/spec-kit/cms-service/internal/persistence"
	"github.com/spec-kit/cms-service/internal/repository"
	"github.com/spec-kit/cms-service/internal/service"
	"github.com/spec-kit/cms-service/internal/store"
	"github.com/spec-kit/cms-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongo, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("failed to connect mongo", zap.Error(err))
	}
	defer mongo.Close(context.Background())

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	docs := store.NewMongoStore(mongo.Database)
	userRepo := repository.NewUserRepository(docs)
	institutionRepo := repository.NewInstitutionRepository(docs)
	reportRepo := repository.NewReportRepository(docs)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	revoked := auth.NewRevocationList(redis.Client)
	provider := auth.NewCredentialProvider(docs, cfg.Auth.BcryptCost)

	identityService := service.NewIdentityService(service.IdentityDependencies{
		Provider: provider,
		Tokens:   tokens,
		Revoked:  revoked,
		UserRepo: userRepo,
		Logger:   logger,
	})
	institutionService := service.NewInstitutionService(service.InstitutionDependencies{
		InstitutionRepo: institutionRepo,
		UserRepo:        userRepo,
		Dispatcher:      dispatcher,
		Logger:          logger,
	})
	membershipService := service.NewMembershipService(service.MembershipDependencies{
		InstitutionRepo: institutionRepo,
		UserRepo:        userRepo,
		Dispatcher:      dispatcher,
	})
	reportService := service.NewReportService(service.ReportDependencies{
		ReportRepo:      reportRepo,
		InstitutionRepo: institutionRepo,
		Dispatcher:      dispatcher,
	})

	reconciler := worker.NewReconciler(institutionRepo, userRepo, logger)
	worker.StartReconciler(dispatcher, reconciler)

	authMiddleware := auth.NewMiddleware(tokens, revoked, userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, mongo, redis),
		Identity:       handlers.NewIdentityHandler(identityService, membershipService),
		Institutions:   handlers.NewInstitutionsHandler(institutionService, membershipService),
		Reports:        handlers.NewReportsHandler(reportService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
