package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/lexkit/practice-service/internal/alerts"
	httptransport "github.com/lexkit/practice-service/internal/api/http"
	"github.com/lexkit/practice-service/internal/api/http/handlers"
	"github.com/lexkit/practice-service/internal/auth"
	"github.com/lexkit/practice-service/internal/config"
	"github.com/lexkit/practice-service/internal/events"
	"github.com/lexkit/practice-service/internal/observability"
	"github.com/lexkit/practice-service/internal/persistence"
	"github.com/lexkit/practice-service/internal/repository"
	"github.com/lexkit/practice-service/internal/service"
	"github.com/lexkit/practice-service/internal/worker"
	"github.com/lexkit/practice-service/pkg/db/transactor"
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
	tx := transactor.NewPgxTransactor(pool)
	exec := transactor.NewPgxWithinTransactionExecutor(pool)

	customerRepo := repository.NewCustomerRepository(exec)
	customerHistoryRepo := repository.NewCustomerHistoryRepository(exec)
	caseRepo := repository.NewCaseRepository(exec)
	caseHistoryRepo := repository.NewCaseHistoryRepository(exec)
	meetingRepo := repository.NewMeetingRepository(exec)
	notificationRepo := repository.NewNotificationRepository(exec)
	consultantRepo := repository.NewConsultantRepository(exec)

	dispatcher := events.NewInMemoryDispatcher()
	dismissals := alerts.NewDismissalCache(alerts.NewRedisKV(redis.Client), cfg.Alerts.DismissalTTL(), logger)

	authService := service.NewAuthService(*cfg, consultantRepo)
	customerService := service.NewCustomerService(service.CustomerDependencies{
		CustomerRepo:   customerRepo,
		HistoryRepo:    customerHistoryRepo,
		ConsultantRepo: consultantRepo,
		Transactor:     tx,
		Dispatcher:     dispatcher,
	})
	caseService := service.NewCaseService(service.CaseDependencies{
		CaseRepo:     caseRepo,
		HistoryRepo:  caseHistoryRepo,
		CustomerRepo: customerRepo,
		Transactor:   tx,
		Dispatcher:   dispatcher,
	})
	meetingService := service.NewMeetingService(meetingRepo, customerRepo, dispatcher)
	notificationService := service.NewNotificationService(notificationRepo, dispatcher)
	alertService := service.NewAlertService(service.AlertDependencies{
		CustomerRepo:     customerRepo,
		CaseRepo:         caseRepo,
		MeetingRepo:      meetingRepo,
		NotificationRepo: notificationRepo,
		Dismissals:       dismissals,
	})

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), consultantRepo)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Customers:      handlers.NewCustomersHandler(customerService),
		Cases:          handlers.NewCasesHandler(caseService),
		Meetings:       handlers.NewMeetingsHandler(meetingService),
		Alerts:         handlers.NewAlertsHandler(alertService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		AuthMiddleware: authMiddleware,
	})

	poller := worker.NewAlertPoller(alertService, dispatcher, cfg.Alerts.PollInterval(), logger)
	go poller.Run(ctx)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	logger.Info("service started", zap.String("addr", cfg.App.Addr()))
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
