package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/weatherbox/internal/adapter/arcgis"
	"github.com/couchcryptid/weatherbox/internal/adapter/httpapi"
	"github.com/couchcryptid/weatherbox/internal/adapter/nws"
	"github.com/couchcryptid/weatherbox/internal/config"
	"github.com/couchcryptid/weatherbox/internal/observability"
	"github.com/couchcryptid/weatherbox/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	geocoder := arcgis.NewCachedGeocoder(
		arcgis.NewClient(cfg.GeocoderBaseURL, cfg.GeocoderTimeout, logger, metrics),
		cfg.GeocodeCacheSize,
		metrics,
	)
	logger.Info("geocoder initialized", "cache_size", cfg.GeocodeCacheSize, "timeout", cfg.GeocoderTimeout)

	weather := nws.NewClient(cfg.NWSBaseURL, cfg.NWSUserAgent, cfg.NWSTimeout, logger, metrics)

	svc := pipeline.New(geocoder, weather, weather, logger, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
