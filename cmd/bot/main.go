package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-bot/internal/api/http"
	"github.com/spec-kit/ticket-bot/internal/api/http/handlers"
	"github.com/spec-kit/ticket-bot/internal/auth"
	"github.com/spec-kit/ticket-bot/internal/config"
	"github.com/spec-kit/ticket-bot/internal/events"
	"github.com/spec-kit/ticket-bot/internal/interactions"
	"github.com/spec-kit/ticket-bot/internal/observability"
	"github.com/spec-kit/ticket-bot/internal/persistence"
	"github.com/spec-kit/ticket-bot/internal/platform/discord"
	"github.com/spec-kit/ticket-bot/internal/repository"
	"github.com/spec-kit/ticket-bot/internal/router"
	"github.com/spec-kit/ticket-bot/internal/service"
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
	ticketStore := repository.NewTicketStore(pool)
	configStore := repository.NewConfigStore(pool)
	confirmations := repository.NewConfirmationStore(redis.Client)

	session, err := discord.NewSession(cfg.Discord, cfg.Ticket, logger)
	if err != nil {
		logger.Fatal("failed to build discord session", zap.Error(err))
	}
	adapter := session.Adapter()

	guard := auth.NewGuard(cfg.Discord.StaffRoleID)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	transcriptService := service.NewTranscriptService(service.TranscriptDependencies{
		Threads:    adapter,
		Messages:   adapter,
		Guild:      adapter,
		Store:      ticketStore,
		Config:     configStore,
		Guard:      guard,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	if err := transcriptService.SeedDefaultDestination(ctx, cfg.Ticket.TranscriptChannelID); err != nil {
		logger.Warn("failed to seed transcript destination", zap.Error(err))
	}

	provisionService := service.NewProvisionService(service.ProvisionDependencies{
		Threads:    adapter,
		Guild:      adapter,
		Composer:   adapter,
		Store:      ticketStore,
		Dispatcher: dispatcher,
		Logger:     logger,
	}, cfg.Discord.StaffRoleID, cfg.Ticket)

	lifecycleService := service.NewLifecycleService(service.LifecycleDependencies{
		Store:         ticketStore,
		Confirmations: confirmations,
		Threads:       adapter,
		Messages:      adapter,
		Transcripts:   transcriptService,
		Guard:         guard,
		Dispatcher:    dispatcher,
		Logger:        logger,
	}, cfg.Ticket.DeleteConfirmTTL)

	auditService := service.NewAuditService(dispatcher, logger)
	auditService.RegisterHandlers()

	r := router.New(logger, metrics)
	interactions.NewHandler(interactions.Dependencies{
		Guard:       guard,
		Provision:   provisionService,
		Lifecycle:   lifecycleService,
		Transcripts: transcriptService,
		Composer:    adapter,
		Guild:       adapter,
		Logger:      logger,
	}).Register(r)

	if err := session.Open(r); err != nil {
		logger.Fatal("failed to open discord session", zap.Error(err))
	}
	defer session.Close() //nolint:errcheck

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, session),
		Metrics: handlers.NewMetricsHandler(metrics),
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
