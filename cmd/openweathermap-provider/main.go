package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/openweathermap-provider/internal/api/http"
	"github.com/i474232898/openweathermap-provider/internal/config"
	"github.com/i474232898/openweathermap-provider/internal/scheduler"
	"github.com/i474232898/openweathermap-provider/internal/store"
	"github.com/i474232898/openweathermap-provider/internal/weather"
	"github.com/i474232898/openweathermap-provider/internal/weather/providers"
)

func main() {
	boot := zap.Must(zap.NewProduction())

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		boot.Fatal("failed to load config", zap.Error(err))
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	zlog, err := zcfg.Build()
	if err != nil {
		boot.Fatal("failed to build logger", zap.Error(err))
	}
	defer zlog.Sync()

	for _, n := range cfg.Notices {
		zlog.Info(n)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	provider := providers.NewOpenWeatherMap(httpClient, cfg.OpenWeatherAPIKey,
		providers.WithUnits(cfg.Units),
		providers.WithLogger(zlog.Named("openweathermap")),
	)

	service := weather.NewService(memStore, provider, zlog.Named("service"))

	// Scheduler that periodically fetches and stores data.
	sched := scheduler.New(cfg.Locations, cfg.FetchInterval, service, zlog.Named("scheduler"))
	if err := sched.Start(); err != nil {
		zlog.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "openweathermap-provider",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
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
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "openweathermap-provider",
		})
	})

	httpapi.RegisterRoutes(app, service, cfg.Locations)

	go func() {
		zlog.Info("listening", zap.String("port", cfg.Port), zap.Int("locations", len(cfg.Locations)))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Error("fiber server stopped", zap.Error(err))
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zlog.Error("error during shutdown", zap.Error(err))
	}
}
