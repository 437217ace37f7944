package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/healthfirst/homecare/internal/bootstrap"
	"github.com/healthfirst/homecare/internal/config"
	"github.com/healthfirst/homecare/internal/core/domain"
	"github.com/healthfirst/homecare/internal/observability/logging"
	"github.com/healthfirst/homecare/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("worker", cfg.LogLevel))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{ResilienceObserver: workerMetrics})
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	if app.Queue == nil {
		log.Fatalf("worker requires NATS_URL")
	}
	if app.SyncUC == nil {
		log.Fatalf("worker requires a document backend, SYNC_BACKEND=%s", cfg.SyncBackend)
	}

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject, "backend", cfg.SyncBackend)
	err = app.Queue.SubscribeSync(ctx, func(handlerCtx context.Context, event domain.SyncEvent) error {
		workerMetrics.StartEvent()
		if !event.CreatedAt.IsZero() {
			workerMetrics.ObserveQueueLag(time.Since(event.CreatedAt))
		}
		started := time.Now()

		applyCtx, cancel := context.WithTimeout(handlerCtx, 30*time.Second)
		defer cancel()
		err := app.SyncUC.Apply(applyCtx, event)
		workerMetrics.FinishEvent(string(event.Kind), time.Since(started), err)
		return err
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
