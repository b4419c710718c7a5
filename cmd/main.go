package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/placora/geoview/internal/adapters/dataset"
	"github.com/placora/geoview/internal/adapters/engine"
	"github.com/placora/geoview/internal/adapters/geoloc"
	"github.com/placora/geoview/internal/adapters/http/api"
	"github.com/placora/geoview/internal/config"
	"github.com/placora/geoview/internal/domain/cluster"
	"github.com/placora/geoview/internal/domain/model"
	"github.com/placora/geoview/internal/view"
	"github.com/placora/geoview/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// alongside the custom registry.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since the logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts := []view.Option{
		view.WithLogger(log.Named("view")),
		view.WithEngineConfig(engine.Config{
			AccessToken: cfg.EngineAccessToken,
			StyleURL:    cfg.EngineStyleURL,
		}),
		view.WithClusterIndex(cluster.New(
			cluster.WithRadius(cfg.ClusterRadiusPx),
			cluster.WithMaxZoom(cfg.ClusterMaxZoom),
		)),
		view.WithDetailZoom(cfg.DetailZoom),
		view.WithGeolocateZoom(cfg.GeolocateZoom),
		view.WithLocale(cfg.Locale),
		view.WithCountrySlug(cfg.CountrySlug),
		view.WithInitialCamera(
			model.Coordinate{Lat: cfg.DefaultCenterLat, Lng: cfg.DefaultCenterLng},
			cfg.DefaultZoom,
		),
	}

	if cfg.GeolocateLat != 0 || cfg.GeolocateLng != 0 {
		opts = append(opts, view.WithPositionProvider(geoloc.StaticProvider{
			Coord: model.Coordinate{Lat: cfg.GeolocateLat, Lng: cfg.GeolocateLng},
		}))
	}

	if cfg.DatasetPath != "" {
		snap, err := dataset.Load(ctx, cfg.DatasetPath)
		switch {
		case errors.Is(err, dataset.ErrReadSnapshot):
			// An absent snapshot is not fatal; the view starts empty.
			log.Warn(ctx, "dataset snapshot unavailable, starting empty",
				logger.String("path", cfg.DatasetPath), logger.Error(err))
		case err != nil:
			os.Stderr.WriteString("failed to load dataset: " + err.Error() + "\n")
			return
		default:
			opts = append(opts,
				view.WithDataset(model.NewDataset(snap.Markers)),
				view.WithCategories(snap.Categories),
			)
			if snap.Camera != nil {
				opts = append(opts, view.WithInitialCamera(snap.Camera.Center, snap.Camera.Zoom))
			}
		}
	}

	v := view.New(&engine.HeadlessFactory{}, opts...)
	if err := v.Mount(ctx); err != nil {
		os.Stderr.WriteString("failed to mount view: " + err.Error() + "\n")
		return
	}
	defer v.Unmount()

	// HTTP mux and routes.
	mux := http.NewServeMux()
	api.NewServer(v).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
