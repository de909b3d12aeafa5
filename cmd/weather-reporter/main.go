package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-reporter/internal/api/http"
	"github.com/i474232898/weather-reporter/internal/config"
	"github.com/i474232898/weather-reporter/internal/location"
	"github.com/i474232898/weather-reporter/internal/scheduler"
	"github.com/i474232898/weather-reporter/internal/weather"
	"github.com/i474232898/weather-reporter/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// The reporter's timeout interval is its only retry, so each provider
	// call is a single attempt.
	retry := providers.WithBackoff(providers.NoRetry())

	// Open-Meteo needs no key; WeatherAPI.com joins as fallback when configured.
	provs := []weather.Provider{providers.NewOpenMeteoProvider(httpClient, retry)}
	if cfg.WeatherAPIKey != "" {
		provs = append(provs, providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey, retry))
	}
	provider := providers.NewFallbackProvider(provs...)

	locator, err := newLocator(cfg)
	if err != nil {
		log.Fatalf("failed to set up location: %v", err)
	}

	reporter := weather.NewReporter(cfg.ReporterConfig(), provider, locator)

	// The scheduler is the caller that keeps the snapshot fresh.
	sched := scheduler.New(cfg.PollInterval, reporter)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-reporter",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          35 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		_, hasLocation := locator.CurrentLocation()
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "weather-reporter",
			"provider": provider.Name(),
			"location": hasLocation,
		})
	})

	httpapi.RegisterRoutes(app, reporter)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

// newLocator prefers a configured coordinate and falls back to geocoding the address.
func newLocator(cfg *config.AppConfig) (weather.Locator, error) {
	if cfg.Coordinate != nil {
		return location.NewStatic(*cfg.Coordinate), nil
	}
	g, err := location.NewGeocoded(cfg.Address, location.GoogleGeocoder(cfg.GeocoderAPIKey))
	if err != nil {
		return nil, err
	}
	g.RefreshLocation()
	return g, nil
}
