package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nkoroleva/medtest_platform/database"
	"github.com/nkoroleva/medtest_platform/models"
	"gorm.io/gorm"
)

type TestRequest struct {
	Title            string  `json:"title" validate:"required,min=3,max=200"`
	Description      string  `json:"description"`
	CategoryID       *string `json:"category_id" validate:"omitempty,uuid"`
	Difficulty       string  `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	TimeLimitMinutes int     `json:"time_limit_minutes" validate:"required,gt=0"`
	PassingScore     int     `json:"passing_score" validate:"required,gte=0,lte=100"`
	AccessType       string  `json:"access_type" validate:"omitempty,oneof=simple subscribed"`
	MaxAttempts      int     `json:"max_attempts" validate:"gte=0"`
	IsStrictMode     *bool   `json:"is_strict_mode"`
	ShuffleQuestions bool    `json:"shuffle_questions"`
	ShuffleAnswers   bool    `json:"shuffle_answers"`
}

// AnswerInput is one entry of the explicit ordered answer list for a
// question. The API never reconstructs answers from indexed form fields.
type AnswerInput struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionRequest struct {
	Text          string        `json:"text" validate:"required"`
	QuestionType  string        `json:"question_type" validate:"required,oneof=single multiple text"`
	Points        int           `json:"points" validate:"required,gt=0"`
	ImageFilename string        `json:"image_filename"`
	Topic         string        `json:"topic"`
	QuestionLevel string        `json:"question_level" validate:"omitempty,oneof=basic medium hard"`
	Answers       []AnswerInput `json:"answers" validate:"required,min=1,dive"`
}

func ModeratorPanel(c *fiber.Ctx) error {
	worker, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var myTests []models.Test
	if err := database.DB.Where("created_by = ?", worker.ID).Find(&myTests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	var allTests []models.Test
	if err := database.DB.Find(&allTests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{
		"my_tests":  myTests,
		"all_tests": allTests,
	})
}

func CreateTest(c *fiber.Ctx) error {
	worker, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req TestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	test := models.Test{
		ID:               uuid.New(),
		Title:            req.Title,
		Description:      req.Description,
		Difficulty:       req.Difficulty,
		TimeLimit:        req.TimeLimitMinutes * 60,
		PassingScore:     req.PassingScore,
		AccessType:       req.AccessType,
		MaxAttempts:      req.MaxAttempts,
		ShuffleQuestions: req.ShuffleQuestions,
		ShuffleAnswers:   req.ShuffleAnswers,
		IsActive:         true,
		CreatedBy:        &worker.ID,
	}
	if test.Difficulty == "" {
		test.Difficulty = "medium"
	}
	if test.AccessType == "" {
		test.AccessType = models.AccessTypeSimple
	}
	if req.IsStrictMode != nil {
		test.IsStrictMode = *req.IsStrictMode
	} else {
		test.IsStrictMode = true
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err == nil {
			test.CategoryID = &categoryID
		}
	}

	if err := database.DB.Create(&test).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create test"})
	}

	return c.Status(fiber.StatusCreated).JSON(test)
}

func UpdateTest(c *fiber.Ctx) error {
	worker, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	test, fail := ownedTest(c, worker)
	if test == nil {
		return fail
	}

	var req TestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	test.Title = req.Title
	test.Description = req.Description
	if req.Difficulty != "" {
		test.Difficulty = req.Difficulty
	}
	test.TimeLimit = req.TimeLimitMinutes * 60
	test.PassingScore = req.PassingScore
	if req.AccessType != "" {
		test.AccessType = req.AccessType
	}
	test.MaxAttempts = req.MaxAttempts
	if req.IsStrictMode != nil {
		test.IsStrictMode = *req.IsStrictMode
	}
	test.ShuffleQuestions = req.ShuffleQuestions
	test.ShuffleAnswers = req.ShuffleAnswers
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err == nil {
			test.CategoryID = &categoryID
		}
	}

	if err := database.DB.Save(test).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update test"})
	}
	return c.JSON(test)
}

func ToggleTest(c *fiber.Ctx) error {
	worker, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	test, fail := ownedTest(c, worker)
	if test == nil {
		return fail
	}

	test.IsActive = !test.IsActive
	if err := database.DB.Save(test).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update test"})
	}

	return c.JSON(fiber.Map{
		"id":        test.ID,
		"is_active": test.IsActive,
	})
}

func DeleteTest(c *fiber.Ctx) error {
	worker, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	test, fail := ownedTest(c, worker)
	if test == nil {
		return fail
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uuid.UUID
		if err := tx.Model(&models.Question{}).Where("test_id = ?", test.ID).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&models.Answer{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("test_id = ?", test.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("test_id = ?", test.ID).Delete(&models.TestSubscription{}).Error; err != nil {
			return err
		}
		return tx.Delete(test).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete test"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func AddQuestion(c *fiber.Ctx) error {
	worker, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	test, fail := ownedTest(c, worker)
	if test == nil {
		return fail
	}

	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	question := models.Question{
		ID:               uuid.New(),
		TestID:           test.ID,
		Text:             req.Text,
		QuestionType:     req.QuestionType,
		Points:           req.Points,
		ImageFilename:    req.ImageFilename,
		Topic:            req.Topic,
		QuestionLevel:    req.QuestionLevel,
		LastModifiedByID: &worker.ID,
	}
	if question.QuestionLevel == "" {
		question.QuestionLevel = "medium"
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		for _, input := range req.Answers {
			answer := models.Answer{
				ID:         uuid.New(),
				QuestionID: question.ID,
				Text:       input.Text,
				IsCorrect:  input.IsCorrect,
			}
			if err := tx.Create(&answer).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create question"})
	}

	database.DB.Preload("Answers").First(&question, "id = ?", question.ID)
	return c.Status(fiber.StatusCreated).JSON(question)
}

func UpdateQuestion(c *fiber.Ctx) error {
	worker, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var question models.Question
	if err := database.DB.First(&question, "id = ?", c.Params("questionId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
	}

	var test models.Test
	if err := database.DB.First(&test, "id = ?", question.TestID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Test not found"})
	}
	if test.CreatedBy == nil || (*test.CreatedBy != worker.ID && !worker.IsAdmin) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
	}

	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	question.Text = req.Text
	question.QuestionType = req.QuestionType
	question.Points = req.Points
	question.ImageFilename = req.ImageFilename
	question.Topic = req.Topic
	if req.QuestionLevel != "" {
		question.QuestionLevel = req.QuestionLevel
	}
	question.LastModifiedByID = &worker.ID
	question.UpdatedAt = time.Now().UTC()

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&question).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		for _, input := range req.Answers {
			answer := models.Answer{
				ID:         uuid.New(),
				QuestionID: question.ID,
				Text:       input.Text,
				IsCorrect:  input.IsCorrect,
			}
			if err := tx.Create(&answer).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update question"})
	}

	database.DB.Preload("Answers").First(&question, "id = ?", question.ID)
	return c.JSON(question)
}

func DeleteQuestion(c *fiber.Ctx) error {
	worker, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var question models.Question
	if err := database.DB.First(&question, "id = ?", c.Params("questionId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
	}

	var test models.Test
	if err := database.DB.First(&test, "id = ?", question.TestID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Test not found"})
	}
	if test.CreatedBy == nil || (*test.CreatedBy != worker.ID && !worker.IsAdmin) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&question).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete question"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func ListAllResults(c *fiber.Ctx) error {
	var results []models.TestResult
	if err := database.DB.Where("completed_at IS NOT NULL").
		Order("completed_at DESC").Find(&results).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(results)
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description"`
}

func CreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	category := models.TestCategory{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := database.DB.Create(&category).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create category"})
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// ownedTest loads the :testId route param and checks the current moderator
// authored it (admins may touch any test). Returns (nil, response) on
// failure; callers must return the response.
func ownedTest(c *fiber.Ctx, worker *models.MedicalWorker) (*models.Test, error) {
	var test models.Test
	if err := database.DB.First(&test, "id = ?", c.Params("testId")).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Test not found"})
	}
	if test.CreatedBy == nil || (*test.CreatedBy != worker.ID && !worker.IsAdmin) {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
	}
	return &test, nil
}
