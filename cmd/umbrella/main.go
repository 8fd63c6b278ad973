package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	httpapi "github.com/umbrella-alerts/umbrella/internal/api/http"
	"github.com/umbrella-alerts/umbrella/internal/config"
	"github.com/umbrella-alerts/umbrella/internal/forecast"
	"github.com/umbrella-alerts/umbrella/internal/geo"
	"github.com/umbrella-alerts/umbrella/internal/logger"
	"github.com/umbrella-alerts/umbrella/internal/notify"
	"github.com/umbrella-alerts/umbrella/internal/orchestrator"
	"github.com/umbrella-alerts/umbrella/internal/scheduler"
	"github.com/umbrella-alerts/umbrella/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	var resolver geo.Resolver
	switch cfg.Geocoder {
	case config.GeocoderGoogle:
		resolver = geo.NewGoogleResolver(cfg.GoogleAPIKey, zlog)
	default:
		resolver = geo.NewOpenWeatherResolver(httpClient, cfg.OpenWeatherAPIKey, zlog)
	}

	forecastClient := forecast.NewClient(httpClient, forecast.Config{
		APIKey: cfg.OpenWeatherAPIKey,
		Lang:   cfg.ForecastLang,
	}, zlog)

	dispatcher := notify.NewDispatcher(httpClient, cfg.PushURL, cfg.PushAuthKey, zlog)

	debugCache := store.NewFileStore(cfg.WeatherDataFile)
	latest := store.NewMemoryStore()

	orch := orchestrator.New(resolver, forecastClient, dispatcher, debugCache, latest, cfg.Group, zlog)

	sched := scheduler.New(cfg.Contacts, cfg.SchedulerTZ, orch, zlog)
	if err := sched.Start(); err != nil {
		zlog.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "umbrella",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
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

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "umbrella",
		})
	})

	httpapi.RegisterRoutes(app, sched, latest)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Error("fiber server stopped", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zlog.Error("error during shutdown", zap.Error(err))
	}
}
