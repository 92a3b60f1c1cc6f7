package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nkoroleva/medtest_platform/handlers"
	"github.com/nkoroleva/medtest_platform/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/stats", handlers.PlatformStats)

	users := admin.Group("/users")
	users.Get("", handlers.ListWorkers)
	users.Patch("/:workerId/toggle-admin", handlers.ToggleAdmin)
	users.Patch("/:workerId/toggle-moderator", handlers.ToggleModerator)
	users.Delete("/:workerId", handlers.DeleteWorker)
}
