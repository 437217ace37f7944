package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/healthfirst/homecare/internal/adapters/http"
	"github.com/healthfirst/homecare/internal/bootstrap"
	"github.com/healthfirst/homecare/internal/config"
	"github.com/healthfirst/homecare/internal/observability/logging"
	"github.com/healthfirst/homecare/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("api", cfg.LogLevel))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{
		ResilienceObserver: httpMetrics,
		TriageObserver:     httpMetrics,
	})
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	if err := app.EnsureAdmin(ctx); err != nil {
		log.Fatalf("ensure admin error: %v", err)
	}
	go app.RunSessionPurge(ctx, cfg.SessionPurgeInterval)

	router := httpadapter.NewRouter(cfg, httpadapter.Services{
		Auth:    app.AuthUC,
		Assess:  app.AssessUC,
		Catalog: app.CatalogUC,
		Profile: app.ProfileUC,
		Contact: app.ContactUC,
		Admin:   app.AdminUC,
		Sync:    app.SyncReader(),
	}, httpMetrics, app.Exporter).Handler()
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api_listening", "port", cfg.APIPort, "predictor_source", app.AIReport.Source)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_failed", "error", err)
	}
}
