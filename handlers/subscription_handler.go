package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nkoroleva/medtest_platform/database"
	"github.com/nkoroleva/medtest_platform/models"
	"github.com/nkoroleva/medtest_platform/notifications"
	"gorm.io/gorm"
)

type SubscriptionRequest struct {
	WorkerID string `json:"worker_id" validate:"required,uuid"`
}

// GrantSubscription assigns a worker to a subscribed-type test. One
// subscription per (worker, test) pair.
func GrantSubscription(c *fiber.Ctx) error {
	moderator, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	test, fail := ownedTest(c, moderator)
	if test == nil {
		return fail
	}
	if test.AccessType != models.AccessTypeSubscribed {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Test does not use subscription access"})
	}

	var req SubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	workerID, _ := uuid.Parse(req.WorkerID)
	var worker models.MedicalWorker
	if err := database.DB.First(&worker, "id = ?", workerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Worker not found"})
	}

	var existing models.TestSubscription
	err = database.DB.Where("worker_id = ? AND test_id = ?", workerID, test.ID).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Worker is already subscribed to this test"})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	subscription := models.TestSubscription{
		ID:           uuid.New(),
		WorkerID:     workerID,
		TestID:       test.ID,
		SubscribedAt: time.Now().UTC(),
	}
	if err := database.DB.Create(&subscription).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create subscription"})
	}

	go notifications.SendEmail(worker.FullName(), worker.Email,
		"New test assigned to you",
		"<h1>New test available</h1><p>The test \""+test.Title+"\" has been assigned to your account.</p>")

	return c.Status(fiber.StatusCreated).JSON(subscription)
}

func RevokeSubscription(c *fiber.Ctx) error {
	moderator, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	test, fail := ownedTest(c, moderator)
	if test == nil {
		return fail
	}

	result := database.DB.Where("test_id = ? AND worker_id = ?", test.ID, c.Params("workerId")).
		Delete(&models.TestSubscription{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to revoke subscription"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Subscription not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func ListSubscriptions(c *fiber.Ctx) error {
	moderator, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	test, fail := ownedTest(c, moderator)
	if test == nil {
		return fail
	}

	var subscriptions []models.TestSubscription
	if err := database.DB.Preload("Worker").Where("test_id = ?", test.ID).
		Find(&subscriptions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(subscriptions)
}
