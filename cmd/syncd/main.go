package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oddsdesk/exchange-data/internal/api"
	"github.com/oddsdesk/exchange-data/internal/broadcast"
	"github.com/oddsdesk/exchange-data/internal/catalog"
	"github.com/oddsdesk/exchange-data/internal/config"
	"github.com/oddsdesk/exchange-data/internal/database"
	"github.com/oddsdesk/exchange-data/internal/feed"
	"github.com/oddsdesk/exchange-data/internal/gateway"
	"github.com/oddsdesk/exchange-data/internal/syncer"
	"github.com/oddsdesk/exchange-data/internal/users"
	"github.com/oddsdesk/exchange-data/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/syncd.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting syncd",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"upstream_url", cfg.Upstream.BaseURL,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	store := catalog.NewPostgresStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	// Create upstream API client
	apiClient := api.NewClient(
		cfg.Upstream.BaseURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Upstream.Timeout),
	)

	// Catalog sync: pipeline plus the interval runner
	pipeline := syncer.NewPipeline(apiClient, store, logger)
	runner := syncer.NewRunner(syncer.RunnerConfig{Interval: cfg.Sync.Interval}, pipeline, logger)

	// Live odds: fetcher, broadcast registry, gateway
	fetcher := feed.NewFetcher(apiClient, logger)
	hub := gateway.NewHub(logger)

	registry := broadcast.NewRegistry(broadcast.Config{
		TickInterval:  cfg.Broadcast.TickInterval,
		SweepInterval: cfg.Broadcast.SweepInterval,
	}, fetcher, hub, logger)

	gwServer := gateway.NewServer(gateway.Config{
		SendQueueSize: cfg.Gateway.SendBufferSize,
		WriteTimeout:  cfg.Gateway.WriteTimeout,
		PingInterval:  cfg.Gateway.PingInterval,
		ReadTimeout:   cfg.Gateway.ReadTimeout,
	}, hub, store, registry, logger)

	if err := registry.Start(ctx); err != nil {
		logger.Error("failed to start broadcast registry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		registry.Stop(shutdownCtx)
	}()

	if err := runner.Start(ctx); err != nil {
		logger.Error("failed to start sync runner", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		runner.Stop(shutdownCtx)
	}()

	// WebSocket gateway server
	gwMux := http.NewServeMux()
	gwMux.Handle("/io/market", gwServer)
	gwHTTP := &http.Server{
		Addr:    cfg.Gateway.ListenAddr,
		Handler: gwMux,
	}
	go func() {
		logger.Info("starting gateway server", "addr", cfg.Gateway.ListenAddr)
		if err := gwHTTP.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("gateway server error", "error", err)
		}
	}()

	// Effective bet-lock resolution over the account hierarchy
	betLocks := users.NewResolver(users.NewPostgresStore(pool), logger)

	// Ops server: health, broadcast debug, on-demand sync trigger
	opsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Ops.Port),
		Handler: createOpsHandler(pool, registry, hub, pipeline, betLocks, logger),
	}
	go func() {
		logger.Info("starting ops server", "port", cfg.Ops.Port)
		if err := opsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("ops server error", "error", err)
		}
	}()

	logger.Info("syncd running",
		"instance_id", cfg.Instance.ID,
		"health_url", fmt.Sprintf("http://localhost:%d%s", cfg.Ops.Port, cfg.Ops.Path),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	gwHTTP.Shutdown(shutdownCtx)
	opsServer.Shutdown(shutdownCtx)

	logger.Info("syncd stopped")
}
