package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/maher4real/support-ticket-system/internal/api/http"
	"github.com/maher4real/support-ticket-system/internal/api/http/handlers"
	"github.com/maher4real/support-ticket-system/internal/cache"
	"github.com/maher4real/support-ticket-system/internal/config"
	"github.com/maher4real/support-ticket-system/internal/events"
	"github.com/maher4real/support-ticket-system/internal/llm"
	"github.com/maher4real/support-ticket-system/internal/observability"
	"github.com/maher4real/support-ticket-system/internal/persistence"
	"github.com/maher4real/support-ticket-system/internal/repository"
	"github.com/maher4real/support-ticket-system/internal/service"
	"github.com/maher4real/support-ticket-system/internal/worker"
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

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	if !cfg.OpenAI.Enabled() {
		logger.Warn("OPENAI_API_KEY not provided; AI operations will answer with defaults")
	}
	classifier := llm.NewClassifier(cfg.OpenAI, logger, metrics)

	ticketRepo := repository.NewTicketRepository(pg.PoolHandle())
	statsCache := cache.NewRedisStatsCache(redis, cfg.Stats.CacheTTL(), logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Scorer:     classifier,
		StatsCache: statsCache,
		Dispatcher: dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	ticketsHandler := handlers.NewTicketsHandler(ticketService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  healthHandler,
		Tickets: ticketsHandler,
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
