// Command retailcored runs the request lifecycle service with its
// operational HTTP endpoint for metrics and health checks.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retailcore/internal/blob"
	"retailcore/internal/config"
	"retailcore/internal/core"
	"retailcore/internal/logging"
	"retailcore/internal/notify"
	"retailcore/pkg/domain"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.Adapt(logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	engine := core.NewDefaultRulesEngine()
	store, err := core.OpenStorage(core.StorageConfig{
		Driver:      core.StorageDriver(cfg.Storage.Driver),
		SQLitePath:  cfg.Storage.SQLitePath,
		PostgresDSN: cfg.Storage.PostgresDSN,
	}, engine)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	blobs, err := openBlobStore(ctx, cfg.Blob)
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}

	dispatcher := notify.NewDispatcher(store, logSender{logger: logger},
		notify.WithLogger(logger),
		notify.WithQueueSize(cfg.Notify.QueueSize),
	)
	dispatcher.Start()

	metrics := core.NewPrometheusMetricsRecorder("retailcore")
	service := core.NewService(store,
		core.WithLogger(logger),
		core.WithMetrics(metrics),
		core.WithBlobStore(blobs),
		core.WithEventSink(dispatcher),
	)
	srv := opsServer(cfg, service, metrics)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("ops listener started", "addr", cfg.Server.OpsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("ops listener: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("ops listener shutdown", "error", err)
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		logger.Warn("dispatcher shutdown", "error", err)
	}
	return nil
}

func openBlobStore(ctx context.Context, cfg config.BlobConfig) (blob.Store, error) {
	switch blob.Driver(cfg.Driver) {
	case blob.DriverMemory:
		return blob.NewMemory(), nil
	case blob.DriverFilesystem:
		root := cfg.FSRoot
		if root == "" {
			root = "blobs"
		}
		return blob.NewFilesystem(root)
	case blob.DriverS3:
		return blob.NewS3(ctx, blob.S3Config{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown blob driver %s", cfg.Driver)
	}
}

func opsServer(cfg config.Config, service *core.Service, metrics *core.PrometheusMetricsRecorder) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		err := service.Store().View(r.Context(), func(domain.TransactionView) error { return nil })
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ready")
	})
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
	}
	return &http.Server{
		Addr:              cfg.Server.OpsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// logSender records notifications in the service log. A mail or webhook
// sender can replace it without touching dispatch logic.
type logSender struct {
	logger core.Logger
}

func (s logSender) Send(_ context.Context, recipient domain.Actor, event core.StateChange) error {
	s.logger.Info("notification",
		"recipient", recipient.Email,
		"entity", event.Entity,
		"entity_id", event.EntityID,
		"from", event.From,
		"to", event.To,
	)
	return nil
}
