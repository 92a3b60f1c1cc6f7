package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nkoroleva/medtest_platform/database"
	"github.com/nkoroleva/medtest_platform/models"
	"github.com/nkoroleva/medtest_platform/services"
)

// GetResult returns the attempt summary plus the per-question breakdown.
// Visible to the owning worker and to moderators.
func GetResult(c *fiber.Ctx) error {
	worker, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var result models.TestResult
	if err := database.DB.First(&result, "id = ?", c.Params("resultId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Result not found"})
	}

	if !services.CanViewResult(worker, &result) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
	}

	var test models.Test
	if err := database.DB.First(&test, "id = ?", result.TestID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Test not found"})
	}

	detailedAnswers, err := services.BuildReport(database.DB, &result)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build report"})
	}

	return c.JSON(fiber.Map{
		"result":           result,
		"test":             test,
		"detailed_answers": detailedAnswers,
	})
}
