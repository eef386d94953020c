// ABOUTME: Entry point for the VM migration sizer service
// ABOUTME: Serves the cluster sizing HTTP API and Prometheus metrics

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/markalston/vm-migration-sizer/cache"
	"github.com/markalston/vm-migration-sizer/catalog"
	"github.com/markalston/vm-migration-sizer/config"
	"github.com/markalston/vm-migration-sizer/handlers"
	"github.com/markalston/vm-migration-sizer/logger"
	"github.com/markalston/vm-migration-sizer/metrics"
	"github.com/markalston/vm-migration-sizer/middleware"
)

// newRouter registers every API route behind logging, CORS, and the JSON
// content-type guard, plus /metrics.
func newRouter(h *handlers.Handler, cors func(http.HandlerFunc) http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()
	for _, route := range h.Routes() {
		pattern := route.Method + " " + route.Path
		mux.HandleFunc(pattern, middleware.Chain(route.Handler, middleware.LogRequest, cors, middleware.RequireJSON))
		// Preflight requests are answered by the CORS middleware
		if route.Method == http.MethodPost {
			mux.HandleFunc(http.MethodOptions+" "+route.Path, middleware.Chain(route.Handler, cors))
		}
	}
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func main() {
	// Initialize structured logging
	logger.Init()

	// Set runtime concurrency to match the container CPU quota
	undoMaxprocs, err := maxprocs.Set(maxprocs.Logger(slog.Debug))
	if err != nil {
		slog.Warn("Failed to set GOMAXPROCS", "error", err)
	}
	defer undoMaxprocs()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting VM Migration Sizer")
	if cfg.VSphereConfigured() {
		slog.Info("vSphere configured", "host", cfg.VSphereHost, "datacenter", cfg.VSphereDatacenter)
	} else {
		slog.Info("vSphere not configured, posted inventories only")
	}
	slog.Info("Overhead reference", "version", cfg.Overheads.Version)

	if err := metrics.InitMetrics(prometheus.DefaultRegisterer); err != nil {
		slog.Error("Failed to register metrics", "error", err)
		os.Exit(1)
	}

	// Initialize cache
	c := cache.New(cfg.CacheDuration())
	defer c.Close()
	slog.Info("Cache initialized", "ttl", cfg.CacheDuration())

	// Initialize profile catalog
	source, err := catalog.NewSource(catalog.Options{
		URL:      cfg.CatalogURL,
		File:     cfg.CatalogFile,
		AllProxy: cfg.CatalogAllProxy,
		Timeout:  time.Duration(cfg.CatalogTimeout) * time.Second,
	})
	if err != nil {
		slog.Error("Failed to configure profile catalog", "error", err)
		os.Exit(1)
	}
	cat := catalog.New(source, cfg.CacheDuration())
	defer cat.Close()
	slog.Info("Profile catalog configured", "source", cat.SourceName())

	// Initialize handlers
	h := handlers.NewHandler(cfg, c, cat)

	mux := newRouter(h, middleware.CORSFor(cfg.CORSAllowedOrigins))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
