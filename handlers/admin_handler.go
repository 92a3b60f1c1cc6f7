package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nkoroleva/medtest_platform/database"
	"github.com/nkoroleva/medtest_platform/models"
	"github.com/nkoroleva/medtest_platform/services"
	"gorm.io/gorm"
)

func PlatformStats(c *fiber.Ctx) error {
	stats, err := services.GetPlatformStats(database.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load stats"})
	}
	return c.JSON(stats)
}

func ListWorkers(c *fiber.Ctx) error {
	var workers []models.MedicalWorker
	if err := database.DB.Order("created_at DESC").Find(&workers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	response := make([]WorkerResponse, len(workers))
	for i, w := range workers {
		response[i] = WorkerResponse{
			ID:             w.ID.String(),
			Email:          w.Email,
			Username:       w.Username,
			FirstName:      w.FirstName,
			LastName:       w.LastName,
			Specialization: w.Specialization,
			IsModerator:    w.IsModerator,
			IsAdmin:        w.IsAdmin,
			CreatedAt:      w.CreatedAt,
		}
	}
	return c.JSON(response)
}

// ToggleAdmin flips the admin flag. Admins can never change their own
// admin rights.
func ToggleAdmin(c *fiber.Ctx) error {
	admin, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var worker models.MedicalWorker
	if err := database.DB.First(&worker, "id = ?", c.Params("workerId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Worker not found"})
	}

	if worker.ID == admin.ID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot change your own admin rights"})
	}

	worker.IsAdmin = !worker.IsAdmin
	if err := database.DB.Save(&worker).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update worker"})
	}

	return c.JSON(fiber.Map{
		"id":       worker.ID,
		"is_admin": worker.IsAdmin,
	})
}

// ToggleModerator flips the moderator flag. An admin cannot drop their own
// moderator rights.
func ToggleModerator(c *fiber.Ctx) error {
	admin, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var worker models.MedicalWorker
	if err := database.DB.First(&worker, "id = ?", c.Params("workerId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Worker not found"})
	}

	if worker.ID == admin.ID && worker.IsAdmin {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot change your own moderator rights"})
	}

	worker.IsModerator = !worker.IsModerator
	if err := database.DB.Save(&worker).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update worker"})
	}

	return c.JSON(fiber.Map{
		"id":           worker.ID,
		"is_moderator": worker.IsModerator,
	})
}

// DeleteWorker removes a worker together with their results. Self-deletion
// is rejected.
func DeleteWorker(c *fiber.Ctx) error {
	admin, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var worker models.MedicalWorker
	if err := database.DB.First(&worker, "id = ?", c.Params("workerId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Worker not found"})
	}

	if worker.ID == admin.ID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot delete your own account"})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var resultIDs []string
		if err := tx.Model(&models.TestResult{}).Where("worker_id = ?", worker.ID).
			Pluck("id", &resultIDs).Error; err != nil {
			return err
		}
		if len(resultIDs) > 0 {
			if err := tx.Where("result_id IN ?", resultIDs).Delete(&models.UserAnswer{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("worker_id = ?", worker.ID).Delete(&models.TestResult{}).Error; err != nil {
			return err
		}
		if err := tx.Where("worker_id = ?", worker.ID).Delete(&models.TestSubscription{}).Error; err != nil {
			return err
		}
		return tx.Delete(&worker).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete worker"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
