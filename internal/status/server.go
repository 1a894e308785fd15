package status

import (
	"github.com/gofiber/fiber/v2"
)

// NewServer builds the ops surface for a running ingest: a liveness probe
// and a progress snapshot. Neither handler touches trail or loop data.
func NewServer(tracker *Tracker) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Get("/health", Health)
	app.Get("/status", Progress(tracker))

	return app
}

// Health is a liveness probe: the process is up, full stop.
func Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// Progress returns the ingest's current progress counters.
func Progress(tracker *Tracker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(tracker.Snapshot())
	}
}
