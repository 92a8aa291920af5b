package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"appshell/internal/api"
	"appshell/internal/config"
	"appshell/internal/observability"
	"appshell/internal/spa"
	"appshell/web"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	addrFlag := flag.String("addr", "", "listen address (host:port), overrides config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *addrFlag != "" {
		cfg.Addr = *addrFlag
	}

	logger := observability.NewLogger(observability.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	version := envOr("APP_VERSION", "dev")

	// Initialize Sentry if DSN is provided
	sentryEnabled := false
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			Environment:      envOr("SENTRY_ENVIRONMENT", "production"),
			Release:          version,
			TracesSampleRate: 1.0,
			AttachStacktrace: true,
		})
		if err != nil {
			logger.Warn("sentry initialization failed", "error", err)
		} else {
			logger.Info("sentry initialized",
				"environment", envOr("SENTRY_ENVIRONMENT", "production"),
				"release", version,
			)
			sentryEnabled = true
		}
	}

	metricsCfg := observability.MetricsConfigFromEnv()
	metricsCfg.Version = version
	metricsCfg.CollapsePrefixes = []string{strings.TrimSuffix(cfg.MountPath, "/")}
	var metrics *observability.Metrics
	if metricsCfg.Enabled {
		metrics = observability.NewMetrics(metricsCfg)
		logger.Info("metrics enabled", "namespace", metricsCfg.Namespace, "version", version)
	} else {
		logger.Info("metrics disabled")
	}

	proxyConfig, err := api.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		logger.Error("invalid trusted_proxies", "error", err)
		os.Exit(1)
	}
	if len(proxyConfig.CIDRs) > 0 {
		logger.Info("trusted proxies configured", "count", len(proxyConfig.CIDRs))
	}

	variant, err := cfg.SPAVariant()
	if err != nil {
		logger.Error("invalid variant", "error", err)
		os.Exit(1)
	}

	dist, err := fs.Sub(web.DistFS, "dist")
	if err != nil {
		logger.Error("embedded UI unavailable", "error", err)
		os.Exit(1)
	}
	assets := spa.NewFS(dist)

	mux := http.NewServeMux()
	srv := api.NewServer(mux, assets, cfg.MountPath, variant, logger, metrics)
	srv.SetVersion(version)
	srv.RegisterRoutes()
	logger.Info("spa routes registered", "mount_path", cfg.MountPath, "variant", variant.String())

	rateCfg := api.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
		TrustedProxies:    proxyConfig,
	}
	if !rateCfg.Enabled() {
		logger.Info("rate limiting disabled")
	} else {
		logger.Info("rate limiting configured",
			"requests_per_second", rateCfg.RequestsPerSecond,
			"burst", rateCfg.Burst,
		)
	}

	// Order: metrics (outermost) -> requestID -> logging -> rate limiting ->
	// security headers (innermost before handler)
	handler := api.ApplyMiddlewares(
		mux,
		observability.MetricsMiddleware(metrics),
		api.RequestIDMiddleware(),
		api.LoggingMiddleware(logger.Slog()),
		api.RateLimitMiddleware(rateCfg, logger.Slog(), metrics),
		api.SecurityHeadersMiddleware(),
	)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout.Std(),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("appshell listening", "addr", cfg.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Std())
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		_ = server.Close()
	}

	if sentryEnabled {
		sentry.Flush(2 * time.Second)
	}
	logger.Info("shutdown complete")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
