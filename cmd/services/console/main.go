package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relaygate/console/internal/aliases"
	"github.com/relaygate/console/internal/config"
	"github.com/relaygate/console/internal/events"
	"github.com/relaygate/console/internal/gateway"
	"github.com/relaygate/console/internal/logging"
	"github.com/relaygate/console/internal/router"
	"github.com/relaygate/console/internal/services"
	"github.com/relaygate/console/internal/snapshot"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("Console service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	// Gateway admin API client
	logger.Info("Using gateway", "base_url", cfg.Gateway.BaseURL)
	gatewayClient := gateway.NewClient(cfg.Gateway)

	// Snapshot cache (configurable backend)
	logger.Info("Connecting snapshot cache", "backend", cfg.Snapshot.Backend)
	cache, err := snapshot.New(cfg.Snapshot)
	if err != nil {
		logger.Fatal("Failed to initialize snapshot cache", "error", err)
	}
	defer func() { _ = cache.Close() }()

	// Alias registry backed by etcd
	logger.Info("Connecting to etcd", "endpoints", cfg.Etcd.Endpoints)
	registry, err := aliases.NewRegistry(cfg.Etcd)
	if err != nil {
		logger.Fatal("Failed to connect to etcd", "error", err)
	}
	defer func() { _ = registry.Close() }()

	// Invalidation event bus (configurable backend)
	logger.Info("Connecting event bus", "type", cfg.Events.Type, "url", cfg.Events.URL)
	bus, err := events.New(cfg.Events)
	if err != nil {
		logger.Fatal("Failed to connect event bus", "error", err)
	}
	defer func() { _ = bus.Close() }()

	// Log authentication status
	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	// Initialize router
	app, err := router.New(logger, gatewayClient, cache, registry, bus, *cfg)
	if err != nil {
		logger.Fatal("Failed to initialize router", "error", err)
	}

	// Apply invalidation events from the other replicas
	consumer := services.NewInvalidationConsumer(logger, cache, bus)
	if err := consumer.Start(); err != nil {
		logger.Fatal("Failed to start invalidation consumer", "error", err)
	}

	// Start server in goroutine
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort)
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	consumer.Stop()

	// Graceful shutdown with 10 second timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
