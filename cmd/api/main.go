// Telebirr Payments Service
//
// This is the main entry point for the Telebirr payment service.
// It wires up all dependencies and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fitstack/telebirr-payments/config"
	"github.com/fitstack/telebirr-payments/internal/api"
	"github.com/fitstack/telebirr-payments/internal/domain"
	"github.com/fitstack/telebirr-payments/internal/observability/logger"
	"github.com/fitstack/telebirr-payments/internal/observability/metrics"
	"github.com/fitstack/telebirr-payments/internal/payment"
	"github.com/fitstack/telebirr-payments/internal/platform/nativebridge"
	"github.com/fitstack/telebirr-payments/internal/plugin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		log.Fatalf("Logger error: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	zlog.Info("starting Telebirr payments service",
		zap.String("port", cfg.Server.Port),
		zap.Bool("bridge_linked", cfg.Bridge.Linked()))

	if code := exitCode(zlog, run(cfg, zlog)); code != 0 {
		os.Exit(code)
	}
}

// exitCode logs err and flushes the logger before main exits.
func exitCode(zlog *zap.Logger, err error) int {
	if err == nil {
		return 0
	}
	zlog.Error("service stopped", zap.Error(err))
	_ = zlog.Sync()
	return 1
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector()

	// Wire up dependencies (manual dependency injection)
	//
	// Infrastructure Layer
	native := newNative(cfg.Bridge, zlog)

	// Service Layer
	opts := []payment.Option{payment.WithMetrics(collector)}
	if cfg.Plugin.Path != "" {
		resolved, err := checkPlugin(ctx, cfg.Plugin.Path, zlog, collector)
		if err != nil {
			return err
		}
		opts = append(opts, payment.WithPluginConfig(resolved))
	}
	paymentService := payment.NewService(native, zlog.Named("payment"), opts...)

	// API Layer
	handler := api.NewHandler(paymentService, collector, zlog)
	router := api.SetupRouter(handler, api.RouterConfig{
		GinMode:       cfg.Server.GinMode,
		ServiceAPIKey: cfg.Security.ServiceAPIKey,
	}, zlog.Named("http"), collector)

	if cfg.Security.ServiceAPIKey == "" {
		zlog.Warn("SERVICE_API_KEY not set; bearer tokens are not verified")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		zlog.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	zlog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newNative returns the bridge client, or the not-linked module when no
// bridge is configured.
func newNative(cfg config.BridgeConfig, zlog *zap.Logger) domain.NativePayment {
	if !cfg.Linked() {
		zlog.Warn("TELEBIRR_BRIDGE_URL not set; native payment module is not linked")
		return nativebridge.NotLinked{}
	}
	if cfg.APIKey == "" {
		zlog.Warn("TELEBIRR_BRIDGE_API_KEY not set")
	}
	return nativebridge.NewClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout, zlog.Named("bridge"))
}

// checkPlugin validates the plugin options file and records the native
// project plans. An invalid file stops the service.
func checkPlugin(ctx context.Context, path string, zlog *zap.Logger, collector *metrics.Collector) (domain.ResolvedConfig, error) {
	file, err := config.LoadPluginFile(path)
	if err != nil {
		return domain.ResolvedConfig{}, err
	}

	configurator := plugin.NewConfigurator(
		plugin.NewLogWriter(zlog.Named("plan")),
		plugin.AppInfo{BundleIdentifier: file.BundleIdentifier, Slug: file.Slug},
		zlog,
		plugin.WithMetrics(collector),
	)
	result, err := configurator.Configure(ctx, file.Options)
	if err != nil {
		return domain.ResolvedConfig{}, err
	}

	zlog.Info("plugin configuration checked",
		zap.String("path", path),
		zap.String("environment", string(result.Config.Environment)),
		zap.Int("warnings", len(result.Warnings)))
	return result.Config, nil
}
