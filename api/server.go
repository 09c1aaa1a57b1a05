package api

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/xaios/ossim/config"
)

// NewApp wires the routes:
//
//	POST /api/v1/cpu, /api/v1/compare, /api/v1/paging, /api/v1/disk
//	GET  /healthz, /metrics
func NewApp(cfg *config.Config, reg *prometheus.Registry) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		logrus.Debugf("%s %s -> %d", ctx.Method(), ctx.Path(), ctx.Response().StatusCode())
		return err
	})

	handler := NewSchedulerHandlerImpl(cfg, NewMetrics(reg))

	api := app.Group("/api")
	v1 := api.Group("/v1")
	{
		v1.Post("/cpu", handler.CPU)
		v1.Post("/compare", handler.Compare)
		v1.Post("/paging", handler.Paging)
		v1.Post("/disk", handler.Disk)
	}

	app.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	return app
}

// Serve listens on cfg.Port until ctx is cancelled, then shuts down.
func Serve(ctx context.Context, cfg *config.Config) error {
	reg := prometheus.NewRegistry()
	app := NewApp(cfg, reg)

	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			logrus.Warnf("shutting down HTTP server: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	logrus.Infof("ossim API listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		return fmt.Errorf("serving %s: %w", addr, err)
	}
	return nil
}
