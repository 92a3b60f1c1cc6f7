package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nkoroleva/medtest_platform/handlers"
	"github.com/nkoroleva/medtest_platform/middleware"
)

func WebSocketRoutes(app *fiber.App) {
	app.Use("/ws", handlers.UpgradeRequired)
	app.Get("/ws/results", middleware.Protected(), middleware.ModeratorRequired(), handlers.ResultsFeed)
}
