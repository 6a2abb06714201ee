package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/soltixdb/thermalreport/internal/config"
	"github.com/soltixdb/thermalreport/internal/handlers"
	"github.com/soltixdb/thermalreport/internal/logging"
	"github.com/soltixdb/thermalreport/internal/middleware"
	"github.com/soltixdb/thermalreport/internal/services"
	"github.com/soltixdb/thermalreport/internal/utils"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, reportService *services.ReportService, cfg config.Config) *handlers.Handler {
	h := handlers.New(logger, reportService, cfg)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddlewareWithConfig(logger, logging.DefaultMiddlewareConfig()))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	authMiddleware := middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled)

	v1 := app.Group("/v1", authMiddleware)
	v1.Post("/reports", h.CreateReport)

	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, reportService *services.ReportService, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Thermal Reporter",
		DisableStartupMessage: true,
		BodyLimit:             utils.MaxUploadSize,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, reportService, cfg)

	return app
}
