package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/nkoroleva/medtest_platform/database"
	"github.com/nkoroleva/medtest_platform/models"
	"github.com/nkoroleva/medtest_platform/services"
	"gorm.io/gorm"
)

func ListCategories(c *fiber.Ctx) error {
	var categories []models.TestCategory
	if err := database.DB.Find(&categories).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(categories)
}

// ListTests returns the tests visible to the worker: simple tests for
// everyone, subscribed ones only when a subscription exists. Each entry
// carries the worker's status (not_started, passed, failed).
func ListTests(c *fiber.Ctx) error {
	worker, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var allTests []models.Test
	if err := database.DB.Preload("Category").Where("is_active = ?", true).Find(&allTests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	var result []fiber.Map
	for i := range allTests {
		test := &allTests[i]

		var subscription *models.TestSubscription
		if test.AccessType == models.AccessTypeSubscribed {
			var sub models.TestSubscription
			err := database.DB.Where("worker_id = ? AND test_id = ?", worker.ID, test.ID).First(&sub).Error
			if err != nil {
				continue
			}
			subscription = &sub
		}

		status := "not_started"
		var latest models.TestResult
		err := database.DB.Where("worker_id = ? AND test_id = ? AND completed_at IS NOT NULL", worker.ID, test.ID).
			Order("completed_at DESC").First(&latest).Error
		if err == nil {
			if latest.Passed {
				status = "passed"
			} else {
				status = "failed"
			}
		}

		entry := fiber.Map{
			"test":   test,
			"status": status,
		}
		if err == nil {
			entry["result"] = latest
		}
		if subscription != nil {
			entry["subscription"] = subscription
		}
		result = append(result, entry)
	}

	return c.JSON(result)
}

// GetTest returns the test detail. For simple single-attempt tests with an
// existing result the response carries a redirect to that result instead.
func GetTest(c *fiber.Ctx) error {
	worker, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var test models.Test
	if err := database.DB.Preload("Category").First(&test, "id = ?", c.Params("testId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Test not found"})
	}

	allowed, err := services.CanAccess(database.DB, worker, &test)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if !allowed {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This test is not available for your account"})
	}

	existing, err := services.FindResumable(database.DB, worker, &test)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if existing != nil {
		return c.JSON(fiber.Map{
			"test":               test,
			"existing_result_id": existing.ID,
		})
	}

	var questionCount int64
	database.DB.Model(&models.Question{}).Where("test_id = ?", test.ID).Count(&questionCount)

	return c.JSON(fiber.Map{
		"test":           test,
		"question_count": questionCount,
	})
}
