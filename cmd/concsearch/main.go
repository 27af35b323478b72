package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/concsearch/internal/config"
	logpkg "github.com/kailas-cloud/concsearch/internal/logger"
	"github.com/kailas-cloud/concsearch/internal/metrics"
	settingsrepo "github.com/kailas-cloud/concsearch/internal/repository/settings"
	chiTransport "github.com/kailas-cloud/concsearch/internal/transport/chi"
	healthuc "github.com/kailas-cloud/concsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/concsearch/internal/usecase/search"
	"github.com/kailas-cloud/concsearch/internal/version"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Println(version.String())
		return
	}

	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting concsearch planner",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("concurrent_mode", cfg.Search.ConcurrentMode),
	)

	store, err := newStore(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterDecisionMetrics()

	cluster, err := clusterSettings(cfg.Search)
	if err != nil {
		logger.Fatal("Invalid cluster settings", zap.Error(err))
	}
	static, err := staticIndexes(cfg.Indexes)
	if err != nil {
		logger.Fatal("Invalid index settings", zap.Error(err))
	}

	registry := newRegistry(cfg.Deciders)
	logger.Info("Deciders registered", zap.Strings("deciders", registry.Names()))

	settingsRepo := settingsrepo.New(store, cfg.Storage.KeyPrefix, static)
	searchSvc := searchuc.New(settingsRepo, registry, cluster, metrics.NewRecorder())
	healthSvc := healthuc.New(store)

	server := chiTransport.NewServer(searchSvc, settingsRepo, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
