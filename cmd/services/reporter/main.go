package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/soltixdb/thermalreport/internal/config"
	"github.com/soltixdb/thermalreport/internal/logging"
	"github.com/soltixdb/thermalreport/internal/queue"
	"github.com/soltixdb/thermalreport/internal/router"
	"github.com/soltixdb/thermalreport/internal/services"
	"github.com/soltixdb/thermalreport/internal/utils"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("Reporter service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	// Report publisher (optional)
	publisher, err := queue.NewPublisher(cfg.Queue)
	if err != nil {
		logger.Fatal("Failed to connect to Queue", "type", cfg.Queue.Type, "error", err)
	}
	if publisher != nil {
		defer func() { _ = publisher.Close() }()
		logger.Info("Report publishing enabled", "type", cfg.Queue.Type, "subject", cfg.Queue.Subject)
	} else {
		logger.Info("Report publishing disabled")
	}

	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	reportService := services.NewReportService(logger, publisher, cfg.Queue.Subject)
	app := router.New(logger, reportService, *cfg)

	go func() {
		addr := cfg.GetServerAddress()
		logger.Info("Server listening",
			"address", addr,
			"timezone", cfg.Analysis.Location().String(),
			"threshold", cfg.Analysis.Threshold)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), utils.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
