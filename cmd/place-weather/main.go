package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	httpapi "github.com/i474232898/place-weather/internal/api/http"
	"github.com/i474232898/place-weather/internal/config"
	"github.com/i474232898/place-weather/internal/geocode"
	"github.com/i474232898/place-weather/internal/scheduler"
	"github.com/i474232898/place-weather/internal/store"
	"github.com/i474232898/place-weather/internal/tracing"
	"github.com/i474232898/place-weather/internal/weather"
	"github.com/i474232898/place-weather/internal/weather/providers"
)

const serviceName = "place-weather"

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logr.Sync() }()

	shutdownTracing, err := tracing.Setup(context.Background(), serviceName, cfg.ZipkinURL)
	if err != nil {
		logr.Fatalw("failed to set up tracing", "error", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Providers with resilience (backoff + circuit breaker).
	fetcher := newFetcher(cfg, httpClient)
	forecast := providers.NewOpenMeteoProvider(httpClient, cfg.ForecastURL, cfg.ForecastMaxRetries)

	normalizer, err := weather.NewNormalizer(cfg.ForecastLocale)
	if err != nil {
		logr.Fatalw("failed to build normalizer", "error", err)
	}

	resolver := geocode.NewResolver(fetcher, cfg.GeocodeAttemptTimeout, logr.Named("geocode"))
	service := weather.NewService(resolver, forecast, normalizer, logr.Named("weather"))

	destinations, err := store.LoadDestinations(cfg.DestinationsPath)
	if err != nil {
		logr.Warnw("destinations dataset unavailable, using fallback set", "path", cfg.DestinationsPath, "error", err)
	} else {
		logr.Infow("destinations loaded", "path", cfg.DestinationsPath, "count", destinations.Len())
	}

	// Periodic provider health probe.
	sched := scheduler.New(fetcher, forecast, cfg.HealthProbeInterval, logr.Named("scheduler"))
	if err := sched.Start(); err != nil {
		logr.Fatalw("failed to start scheduler", "error", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.RequestTimeout + 15*time.Second,
		ErrorHandler:          httpapi.ErrorHandler(logr),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(tracing.Middleware(serviceName))
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	httpapi.RegisterHealth(app, serviceName, sched)
	httpapi.RegisterRoutes(app, service, destinations, cfg.RequestTimeout, logr.Named("http"))

	go func() {
		logr.Infow("listening", "port", cfg.Port, "geocoder", fetcher.Name(), "forecast", forecast.Name())
		if err := app.Listen(":" + cfg.Port); err != nil {
			logr.Errorw("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sched.Stop()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logr.Errorw("error during shutdown", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logr.Errorw("error flushing traces", "error", err)
	}
}

func newFetcher(cfg *config.AppConfig, client *http.Client) geocode.Fetcher {
	if cfg.GeocoderBackend == config.BackendGoogle {
		return providers.NewGoogleGeocoder(cfg.GoogleGeocoderAPIKey)
	}
	return providers.NewOpenMeteoGeocoder(client, cfg.GeocodingURL, cfg.GeocoderMaxRetries)
}
