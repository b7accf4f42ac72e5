// cmd/api-server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"dialogue-workers/internal/catalog"
	"dialogue-workers/internal/common/config"
	"dialogue-workers/internal/common/logger"
	"dialogue-workers/internal/server"
)

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting api server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := catalog.NewStore(catalog.LoadFiles(cfg.Catalog.RulesPath, cfg.Catalog.TemplatesPath, log))
	if cfg.Catalog.WatchFiles {
		go func() {
			if err := store.Watch(ctx, cfg.Catalog.RulesPath, cfg.Catalog.TemplatesPath, log); err != nil && err != context.Canceled {
				zapLog.Error("catalog watcher stopped", zap.Error(err))
			}
		}()
	}

	srv, err := server.New(store, log)
	if err != nil {
		zapLog.Fatal("server init failed", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:         cfg.HTTP.APIAddress,
		Handler:      srv,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("API server listening", zap.String("address", cfg.HTTP.APIAddress))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("api server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining connections...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}

	zapLog.Info("API server stopped gracefully")
}
