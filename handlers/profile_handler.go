package handlers

import (
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/nkoroleva/medtest_platform/database"
	"github.com/nkoroleva/medtest_platform/models"
)

func GetProfile(c *fiber.Ctx) error {
	worker, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var completed []models.TestResult
	if err := database.DB.
		Where("worker_id = ? AND completed_at IS NOT NULL", worker.ID).
		Find(&completed).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	totalTests := len(completed)
	passedTests := 0
	avgScore := 0.0
	for _, r := range completed {
		if r.Passed {
			passedTests++
		}
		avgScore += r.Percentage
	}
	if totalTests > 0 {
		avgScore = math.Round(avgScore/float64(totalTests)*10) / 10
	}

	var recentResults []models.TestResult
	database.DB.Where("worker_id = ?", worker.ID).
		Order("started_at DESC").Limit(10).Find(&recentResults)

	return c.JSON(fiber.Map{
		"worker": WorkerResponse{
			ID:             worker.ID.String(),
			Email:          worker.Email,
			Username:       worker.Username,
			FirstName:      worker.FirstName,
			LastName:       worker.LastName,
			Specialization: worker.Specialization,
			IsModerator:    worker.IsModerator,
			IsAdmin:        worker.IsAdmin,
			CreatedAt:      worker.CreatedAt,
		},
		"total_tests":    totalTests,
		"passed_tests":   passedTests,
		"avg_score":      avgScore,
		"recent_results": recentResults,
	})
}

func ListOwnCertificates(c *fiber.Ctx) error {
	worker, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var certificates []models.Certificate
	if err := database.DB.Where("worker_id = ?", worker.ID).
		Order("issued_at DESC").Find(&certificates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(certificates)
}
