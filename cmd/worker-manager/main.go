// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"dialogue-workers/internal/catalog"
	"dialogue-workers/internal/common/camunda"
	"dialogue-workers/internal/common/config"
	"dialogue-workers/internal/common/database"
	"dialogue-workers/internal/common/logger"
	"dialogue-workers/internal/common/observability"

	mt "dialogue-workers/internal/workers/dialogue/match-template"
	pt "dialogue-workers/internal/workers/dialogue/process-template"
	vs "dialogue-workers/internal/workers/dialogue/validate-slots"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Load the rule catalog ---
	var store *catalog.Store
	switch cfg.Catalog.Source {
	case "postgres":
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		snapshot, err := catalog.LoadPostgres(ctx, pg.DB)
		if err != nil {
			zapLog.Fatal("catalog load from postgres failed", zap.Error(err))
		}
		store = catalog.NewStore(snapshot)
	default:
		store = catalog.NewStore(catalog.LoadFiles(cfg.Catalog.RulesPath, cfg.Catalog.TemplatesPath, log))
		if cfg.Catalog.WatchFiles {
			go func() {
				if err := store.Watch(ctx, cfg.Catalog.RulesPath, cfg.Catalog.TemplatesPath, log); err != nil && err != context.Canceled {
					zapLog.Error("catalog watcher stopped", zap.Error(err))
				}
			}()
		}
	}
	zapLog.Info("Catalog loaded",
		zap.String("source", cfg.Catalog.Source),
		zap.Int("rules", store.Get().RuleCount()),
		zap.Int("templates", store.Get().TemplateCount()),
	)

	// --- Register workers ---
	var workers []*camunda.CamundaWorker
	register := func(taskType string, wcfg config.WorkerConfig, handler camunda.JobHandler) {
		if !wcfg.Enabled {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		workers = append(workers, camunda.NewWorker(
			camundaClient.GetClient(),
			taskType,
			wcfg.MaxJobsActive,
			time.Duration(wcfg.Timeout)*time.Millisecond,
			handler,
			zapLog,
		))
	}

	{
		wcfg := cfg.Workers[vs.TaskType]
		conf := vs.LoadConfig()
		conf.Timeout = time.Duration(wcfg.Timeout) * time.Millisecond
		handler := vs.NewHandler(conf, store, &validateSlotsLoggerAdapter{log})
		register(vs.TaskType, wcfg, handler.Handle)
	}

	{
		wcfg := cfg.Workers[pt.TaskType]
		conf := pt.LoadConfig()
		conf.Timeout = time.Duration(wcfg.Timeout) * time.Millisecond
		handler := pt.NewHandler(conf, store, redis.Client, log)
		register(pt.TaskType, wcfg, handler.Handle)
	}

	{
		wcfg := cfg.Workers[mt.TaskType]
		conf := mt.LoadConfig()
		conf.Timeout = time.Duration(wcfg.Timeout) * time.Millisecond
		handler := mt.NewHandler(conf, store, log)
		register(mt.TaskType, wcfg, handler.Handle)
	}
	zapLog.Info("All dialogue workers registered successfully", zap.Int("workers", len(workers)))

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := camundaClient.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.HTTP.MetricsAddress))
		if err := http.ListenAndServe(cfg.HTTP.MetricsAddress, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	cancelWatch()

	for _, w := range workers {
		w.Stop()
	}
	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// validate-slots declares its own Logger interface; adapt the common one.
type validateSlotsLoggerAdapter struct {
	logger.Logger
}

func (a *validateSlotsLoggerAdapter) With(fields map[string]interface{}) vs.Logger {
	return &validateSlotsLoggerAdapter{a.Logger.With(fields)}
}
