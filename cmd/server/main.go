package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/commons"
	"storefront/internal/infrastructure/cache"
	"storefront/internal/infrastructure/logger"
	"storefront/internal/product"
	"storefront/internal/server"

	"go.uber.org/zap"
)

func main() {
	cfg, err := commons.LoadConfig("internal/config/config.yaml", ".env")
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := commons.OpenStore(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("opening catalog store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer func() {
		if err := closeStore(); err != nil {
			zapLogger.Error("closing catalog store", zap.Error(err))
		}
	}()

	var resultCache *cache.MemoryCache
	if cfg.Search.CacheTTL > 0 {
		resultCache = cache.NewMemoryCache(cfg.Search.CacheTTL, cfg.Search.CacheCleanup)
	}

	productModule, err := product.NewModule(store, resultCache, *cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("building product module", zap.Error(err))
	}

	router := server.NewRouter(ctx, cfg.Server, productModule.Controller, productModule.Service, zapLogger)
	defer router.Close()

	srv := server.New(cfg.Server, router, zapLogger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			zapLogger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
		return
	case <-ctx.Done():
	}
	zapLogger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server shutdown failed", zap.Error(err))
		return
	}

	zapLogger.Info("server stopped gracefully")
}
