// Package main runs the credit-alert notification relay server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Fewsrt/webapp-credit-alert-backend/internal/api"
	"github.com/Fewsrt/webapp-credit-alert-backend/internal/artifact"
	"github.com/Fewsrt/webapp-credit-alert-backend/internal/config"
	"github.com/Fewsrt/webapp-credit-alert-backend/internal/database"
	"github.com/Fewsrt/webapp-credit-alert-backend/internal/line"
	"github.com/Fewsrt/webapp-credit-alert-backend/internal/logging"
	"github.com/Fewsrt/webapp-credit-alert-backend/internal/notice"
	"github.com/Fewsrt/webapp-credit-alert-backend/internal/subscriber"
	"github.com/Fewsrt/webapp-credit-alert-backend/internal/webhook"
)

func main() {
	migrateOnly := flag.Bool("migrate", false, "Run migrations and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger := logging.New(cfg.Env, cfg.LogLevel)

	logger.Info("running database migrations")
	if err := database.Migrate(cfg.DatabaseURL); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
	logger.Info("migrations complete")

	if *migrateOnly {
		return
	}

	ctx := context.Background()
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	lineClient := line.NewClient(line.Config{
		AccessToken: cfg.ChannelAccessToken,
		BaseURL:     cfg.LineAPIBase,
	})

	artifacts, err := artifact.NewStore(cfg.ArtifactDir, cfg.ArtifactBaseURL, cfg.CleanupMaxAge, logger)
	if err != nil {
		logger.Error("failed to create artifact store", "error", err)
		os.Exit(1)
	}

	server := api.NewServer(api.Config{
		Verifier:   webhook.NewVerifier(cfg.ChannelSecret),
		Directory:  subscriber.NewDirectory(db, lineClient, logger),
		Dispatcher: notice.NewDispatcher(lineClient, artifacts, db, cfg.PromptPayID, logger),
		Artifacts:  artifacts.Handler(),
		Logger:     logger,
		Port:       cfg.Port,
		Production: cfg.Production(),
	})

	// Background QR cleanup runs for the life of the process.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go artifacts.RunSweeper(sweepCtx, cfg.CleanupInterval)

	addr := fmt.Sprintf(":%s", cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server started", "addr", addr, "environment", cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
