package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nkoroleva/medtest_platform/handlers"
	"github.com/nkoroleva/medtest_platform/middleware"
)

func ModeratorRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	moderator := api.Group("/moderator", middleware.Protected(), middleware.ModeratorRequired())
	moderator.Get("/panel", handlers.ModeratorPanel)
	moderator.Get("/results", handlers.ListAllResults)
	moderator.Post("/categories", handlers.CreateCategory)
	moderator.Get("/upload-signature", handlers.GenerateUploadSignature)

	tests := moderator.Group("/tests")
	tests.Post("", handlers.CreateTest)
	tests.Put("/:testId", handlers.UpdateTest)
	tests.Patch("/:testId/toggle", handlers.ToggleTest)
	tests.Delete("/:testId", handlers.DeleteTest)
	tests.Post("/:testId/questions", handlers.AddQuestion)

	tests.Get("/:testId/subscriptions", handlers.ListSubscriptions)
	tests.Post("/:testId/subscriptions", handlers.GrantSubscription)
	tests.Delete("/:testId/subscriptions/:workerId", handlers.RevokeSubscription)

	questions := moderator.Group("/questions")
	questions.Put("/:questionId", handlers.UpdateQuestion)
	questions.Delete("/:questionId", handlers.DeleteQuestion)
}
