package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/pokernight/internal/api"
	"github.com/mcoot/pokernight/internal/config"
	"github.com/mcoot/pokernight/internal/factory"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("invalid .env file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Build factory config from the environment
	factoryCfg := factory.Config{
		AuthConfig:  cfg.Auth(),
		Logger:      logger,
		StorageType: cfg.StorageType,
	}
	switch cfg.StorageType {
	case factory.StorageTypeRedis:
		redisCfg := cfg.Redis()
		factoryCfg.RedisConfig = &redisCfg
	case factory.StorageTypePostgres:
		pgCfg := cfg.Postgres()
		factoryCfg.PostgresConfig = &pgCfg
	}

	app, err := factory.New(ctx, factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	if !app.AuthService.Enabled() {
		logger.Warn("admin password not configured, all routes are open")
	}

	// Totals may be stale if a previous run stopped between a write and its recompute
	if err := app.Aggregator.Recompute(ctx); err != nil {
		logger.Warn("startup recompute failed", slog.String("error", err.Error()))
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		AuthService:        app.AuthService,
		PlayerService:      app.PlayerService,
		SessionController:  app.SessionController,
		LeaderboardService: app.LeaderboardService,
		Aggregator:         app.Aggregator,
	})

	server := api.NewServer(router, api.ServerConfigFrom(cfg), logger)
	if err := server.Listen(); err != nil {
		logger.Error("failed to start server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
