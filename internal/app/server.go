package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deptadmin/seminar_scheduler/internal/controller/handlers"
)

// NewServer builds the fiber app with the pipeline routes mounted.
func NewServer(pool *pgxpool.Pool, selection *handlers.SelectionHandler) *fiber.App {
	srv := fiber.New(fiber.Config{
		AppName: "seminar-scheduler",
	})

	srv.Use(fiberlogger.New())
	srv.Use(cors.New())

	srv.Get("/healthz", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status": "degraded",
				"error":  err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// POST alias exists for schedulers that only issue POST
	srv.Get("/selection/run", selection.Run)
	srv.Post("/selection/run", selection.Run)
	srv.Get("/selection/status", selection.Status)

	return srv
}
