package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nkoroleva/medtest_platform/handlers"
	"github.com/nkoroleva/medtest_platform/middleware"
)

func TestRoutes(app *fiber.App) {
	api := app.Group("/api/v1", middleware.Protected())

	api.Get("/profile", handlers.GetProfile)
	api.Get("/certificates", handlers.ListOwnCertificates)
	api.Get("/categories", handlers.ListCategories)

	tests := api.Group("/tests")
	tests.Get("", handlers.ListTests)
	tests.Get("/:testId", handlers.GetTest)
	tests.Post("/:testId/start", handlers.StartAttempt)

	attempts := api.Group("/attempts")
	attempts.Get("/:resultId", handlers.GetAttempt)
	attempts.Post("/:resultId/submit", handlers.SubmitAttempt)

	api.Get("/results/:resultId", handlers.GetResult)
}
