package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tavern/backend/internal/config"
	httpapi "github.com/tavern/backend/internal/http"
	"github.com/tavern/backend/internal/service"
	"github.com/tavern/backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "tavern-backend").Logger()

	ctx := context.Background()
	var gateway storage.Gateway
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		pg, err := storage.NewPostgresGateway(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect db")
		}
		defer pg.Close()
		gateway = pg
	default:
		fg, err := storage.NewFileGateway(cfg.FileMap(), logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid file storage config")
		}
		gateway = fg
	}
	if err := gateway.Init(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	logger.Info().Str("backend", cfg.StorageBackend).Msg("storage ready")

	system := service.NewSystem(gateway, logger)
	router := httpapi.Router(cfg, gateway, system, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
