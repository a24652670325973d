package main

import (
	"context"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"retail-analytics-service/internal/config"
	"retail-analytics-service/internal/controller"
	"retail-analytics-service/internal/db"
	httpserver "retail-analytics-service/internal/http"
	"retail-analytics-service/internal/logger"
	"retail-analytics-service/internal/repository"
	"retail-analytics-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("dev")
		logger.Log.Fatal().Err(err).Msg("load config")
	}
	logger.Init(cfg.AppMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	chConn, err := db.NewClickHouse(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("connect clickhouse")
	}
	defer chConn.Close()

	pgConn, err := db.NewPostgres(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pgConn.Close()

	if err := db.RunClickHouseMigrations(ctx, chConn); err != nil {
		logger.Log.Fatal().Err(err).Msg("migrate clickhouse")
	}
	if err := db.RunPostgresMigrations(ctx, pgConn); err != nil {
		logger.Log.Fatal().Err(err).Msg("migrate postgres")
	}

	observationRepo := repository.NewObservationRepository(chConn)
	catalogRepo := repository.NewCatalogRepository(pgConn)
	dashboardRepo := repository.NewDashboardRepository(pgConn)

	worker := service.NewBatchObservationWorker(observationRepo, cfg.WorkerBufferSize, cfg.WorkerBatchSize, cfg.WorkerFlushEvery)
	observationService := service.NewObservationService(catalogRepo, worker)
	dashboardService := service.NewDashboardService(dashboardRepo, observationRepo, catalogRepo)
	attributeService := service.NewAttributeService(catalogRepo)
	resolver := service.NewFilterResolver()

	dashboardController := controller.NewDashboardController(dashboardRepo, dashboardService, resolver)
	observationController := controller.NewObservationController(observationService)
	attributeController := controller.NewAttributeController(attributeService)

	server := httpserver.NewServer(cfg, dashboardController, observationController, attributeController)

	go func() {
		<-ctx.Done()
		logger.Log.Info().Msg("shutdown signal received")
		if err := server.Shutdown(); err != nil {
			logger.Log.Error().Err(err).Msg("server shutdown")
		}
	}()

	logger.Log.Info().Str("addr", cfg.HTTPPort).Msg("starting server")
	if err := server.Listen(cfg.HTTPPort); err != nil {
		logger.Log.Fatal().Err(err).Msg("server stopped")
	}

	worker.Shutdown()
}
