package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/insightdelivered/stat-report-converter/internal/config"
)

// NewApp builds the fiber app serving the API routes of h.
func NewApp(cfg config.ServerConfig, h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "statreport",
		BodyLimit:             cfg.BodyLimitMB << 20,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(h.logger()),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	h.RegisterRoutes(app)
	return app
}

// errorHandler renders routing and middleware errors in the API's error
// shape.
func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed", slog.String("path", c.Path()), slog.Any("error", err))
		}
		return writeError(c, status, err.Error())
	}
}
