package cmd

import (
	"context"
	"fmt"
	"time"

	"propbets/config"
	"propbets/database"
	"propbets/events"
	"propbets/httpapi"
	"propbets/metrics"
	"propbets/projections"
	"propbets/repository"
	"propbets/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting propbets server...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	outcomes := service.NewOutcomeGenerator()
	userService := service.NewUserService(uowFactory, cfg.BcryptCost)
	customBetService := service.NewCustomBetService(uowFactory, outcomes)
	pickService := service.NewPickService(uowFactory, outcomes)
	leaderboardService := service.NewLeaderboardService(uowFactory)

	boardClient := projections.NewClient(cfg.ProjectionsURL, 10*time.Second)
	boardService := projections.NewService(boardClient, cfg.ProjectionsCacheTTL)

	collector := metrics.NewCollector()
	collector.Subscribe(eventBus)
	metricsServer := metrics.StartServer(cfg.MetricsPort, func(ctx context.Context) error {
		return db.Ping(ctx)
	})
	log.WithField("port", cfg.MetricsPort).Info("Metrics server listening")

	server := httpapi.NewServer(httpapi.Config{
		Addr:        ":" + cfg.Port,
		JWTSecret:   cfg.JWTSecret,
		JWTExpiry:   cfg.JWTExpiry,
		GuestExpiry: cfg.GuestExpiry,
		CORSOrigins: cfg.CORSOrigins,
	}, userService, customBetService, pickService, leaderboardService, boardService)

	log.WithField("environment", cfg.Environment).Info("Server is running")
	err = server.Run(ctx)

	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if shutdownErr := metricsServer.Shutdown(shutdownCtx); shutdownErr != nil {
		log.WithError(shutdownErr).Warn("Metrics server shutdown failed")
	}

	db.Close()
	log.Info("Shutdown completed")

	return err
}
