package router

import (
	"oabpe-web/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Setup registers every route of the web server. The returned func releases
// the clients opened for the routes.
func Setup(app *fiber.App, db *sqlx.DB, redis *redis.Client, cfg *config.Config) (func() error, error) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"app":    cfg.AppName,
		})
	})

	// API routes (JSON)
	api := app.Group("/api/v1")
	return SetupAPIRoutes(api, db, redis, cfg)
}
