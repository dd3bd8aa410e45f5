// Package main provides the HTTP server for Luna.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lunawell/luna/internal/config"
	"github.com/lunawell/luna/internal/gateway"
	"github.com/lunawell/luna/internal/metrics"
	"github.com/lunawell/luna/internal/server"
	"github.com/lunawell/luna/internal/service"
	"github.com/lunawell/luna/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logging
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("failed to close log file", "error", err)
		}
	}()
	slog.SetDefault(logger)

	slog.Info("starting luna-server", "port", cfg.Port, "provider", cfg.LLMProvider, "model", cfg.LLMModel)

	// Build dependencies: store is seeded before the first request.
	st := store.NewMemoryStore()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err := store.Seed(ctx, st, cfg.ResourcesFile)
	cancel()
	if err != nil {
		slog.Error("failed to seed resource catalog", "error", err)
		os.Exit(1)
	}

	collector := metrics.NewCollector()
	gw := gateway.New(cfg, logger, collector)
	chat := service.NewChatService(st, gw, collector, logger)
	srv := server.New(st, chat, collector, logger)

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second, // Long for LLM responses
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("REST API available", "url", "http://localhost:"+cfg.Port+"/api")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
