package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/secureguard/phishsim-service/internal/api/http"
	"github.com/secureguard/phishsim-service/internal/api/http/handlers"
	"github.com/secureguard/phishsim-service/internal/auth"
	"github.com/secureguard/phishsim-service/internal/config"
	"github.com/secureguard/phishsim-service/internal/events"
	"github.com/secureguard/phishsim-service/internal/observability"
	"github.com/secureguard/phishsim-service/internal/persistence"
	"github.com/secureguard/phishsim-service/internal/repository"
	"github.com/secureguard/phishsim-service/internal/service"
	"github.com/secureguard/phishsim-service/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	templateRepo := repository.NewTemplateRepository(pool)
	campaignRepo := repository.NewCampaignRepository(pool)
	recipientRepo := repository.NewRecipientRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	identityService := service.NewIdentityService(cfg.Auth, userRepo)
	templateService := service.NewTemplateService(templateRepo, campaignRepo)
	campaignService := service.NewCampaignService(service.CampaignDependencies{
		CampaignRepo:  campaignRepo,
		RecipientRepo: recipientRepo,
		TemplateRepo:  templateRepo,
		UserRepo:      userRepo,
		Dispatcher:    dispatcher,
	})
	trackingService := service.NewTrackingService(recipientRepo, dispatcher, logger)
	statsService := service.NewStatsService(service.StatsDependencies{
		RecipientRepo: recipientRepo,
		CampaignRepo:  campaignRepo,
		UserRepo:      userRepo,
		TemplateRepo:  templateRepo,
		Cache:         redis.ClientHandle(),
		CacheTTL:      cfg.Tracking.StatsCacheTTL(),
		Logger:        logger,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notify)

	worker.StartNotificationWorker(notificationService)
	scheduler := worker.NewSchedulerWorker(campaignService, cfg.Tracking.SchedulerInterval(), logger)
	go scheduler.Run(ctx)

	authMiddleware := auth.NewAuthMiddleware(identityService.TokenManager(), userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redis),
		Auth:           handlers.NewAuthHandler(identityService),
		Users:          handlers.NewUsersHandler(identityService),
		Templates:      handlers.NewTemplatesHandler(templateService),
		Campaigns:      handlers.NewCampaignsHandler(campaignService, statsService),
		Dashboard:      handlers.NewDashboardHandler(statsService, campaignService),
		Tracking:       handlers.NewTrackingHandler(trackingService, metrics),
		Scanner:        handlers.NewScannerHandler(service.NewSimulatedScanner()),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
