package handlers

import (
	"errors"
	"math/rand"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nkoroleva/medtest_platform/database"
	"github.com/nkoroleva/medtest_platform/models"
	"github.com/nkoroleva/medtest_platform/services"
	"github.com/nkoroleva/medtest_platform/websocket"
)

type AnswerOption struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}

// QuestionForWorker strips grading information before a question reaches the
// test taker.
type QuestionForWorker struct {
	ID            uuid.UUID      `json:"id"`
	Text          string         `json:"text"`
	QuestionType  string         `json:"question_type"`
	Points        int            `json:"points"`
	ImageFilename string         `json:"image_filename,omitempty"`
	Answers       []AnswerOption `json:"answers"`
}

func StartAttempt(c *fiber.Ctx) error {
	worker, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var test models.Test
	if err := database.DB.First(&test, "id = ?", c.Params("testId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Test not found"})
	}

	existing, err := services.FindResumable(database.DB, worker, &test)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     "Test already attempted",
			"result_id": existing.ID,
		})
	}

	result, err := services.StartAttempt(database.DB, worker, &test)
	if err != nil {
		var limitErr *services.AttemptLimitError
		switch {
		case errors.Is(err, services.ErrAccessDenied):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This test is not available for your account"})
		case errors.As(err, &limitErr):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":     "Attempt limit reached for this test",
				"result_id": limitErr.LatestResultID,
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start attempt"})
		}
	}

	questions, err := questionsForAttempt(&test)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load questions"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"result_id":  result.ID,
		"test_title": test.Title,
		"time_limit": test.TimeLimit,
		"started_at": result.StartedAt,
		"questions":  questions,
	})
}

// GetAttempt re-serves the question sheet for an open attempt. Completed
// attempts point the caller at the result report instead.
func GetAttempt(c *fiber.Ctx) error {
	worker, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var result models.TestResult
	if err := database.DB.First(&result, "id = ?", c.Params("resultId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Attempt not found"})
	}
	if result.WorkerID != worker.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
	}
	if result.IsCompleted() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     "Attempt already completed",
			"result_id": result.ID,
		})
	}

	var test models.Test
	if err := database.DB.First(&test, "id = ?", result.TestID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Test not found"})
	}

	questions, err := questionsForAttempt(&test)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load questions"})
	}

	return c.JSON(fiber.Map{
		"result_id":  result.ID,
		"test_title": test.Title,
		"time_limit": test.TimeLimit,
		"started_at": result.StartedAt,
		"questions":  questions,
	})
}

type SubmitAttemptRequest struct {
	Answers []struct {
		QuestionID string   `json:"question_id" validate:"required,uuid"`
		AnswerIDs  []string `json:"answer_ids"`
		TextAnswer string   `json:"text_answer"`
	} `json:"answers" validate:"required"`
}

func SubmitAttempt(c *fiber.Ctx) error {
	worker, err := currentWorker(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req SubmitAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var result models.TestResult
	if err := database.DB.First(&result, "id = ? AND worker_id = ?", c.Params("resultId"), worker.ID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Attempt not found"})
	}

	submissions := make([]services.AnswerSubmission, 0, len(req.Answers))
	for _, a := range req.Answers {
		questionID, err := uuid.Parse(a.QuestionID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid question id"})
		}
		sub := services.AnswerSubmission{QuestionID: questionID, TextAnswer: a.TextAnswer}
		for _, rawID := range a.AnswerIDs {
			answerID, err := uuid.Parse(rawID)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid answer id"})
			}
			sub.AnswerIDs = append(sub.AnswerIDs, answerID)
		}
		submissions = append(submissions, sub)
	}

	outcome, err := services.GradeSubmission(database.DB, &result, submissions)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyCompleted) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":     "Attempt already completed",
				"result_id": result.ID,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save results"})
	}

	websocket.Publish(&result)
	go services.CheckAndGenerateCertificate(database.DB, result)

	return c.JSON(fiber.Map{
		"message":      "Test submitted successfully",
		"result_id":    result.ID,
		"score":        outcome.Score,
		"total_points": outcome.TotalPoints,
		"percentage":   outcome.Percentage,
		"passed":       outcome.Passed,
		"time_taken":   outcome.TimeTaken,
	})
}

func questionsForAttempt(test *models.Test) ([]QuestionForWorker, error) {
	var questions []models.Question
	if err := database.DB.Preload("Answers").Where("test_id = ?", test.ID).
		Order("created_at").Find(&questions).Error; err != nil {
		return nil, err
	}

	if test.ShuffleQuestions {
		rand.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}

	sheet := make([]QuestionForWorker, len(questions))
	for i, q := range questions {
		options := make([]AnswerOption, len(q.Answers))
		for j, a := range q.Answers {
			options[j] = AnswerOption{ID: a.ID, Text: a.Text}
		}
		if test.ShuffleAnswers {
			rand.Shuffle(len(options), func(i, j int) {
				options[i], options[j] = options[j], options[i]
			})
		}
		sheet[i] = QuestionForWorker{
			ID:            q.ID,
			Text:          q.Text,
			QuestionType:  q.QuestionType,
			Points:        q.Points,
			ImageFilename: q.ImageFilename,
			Answers:       options,
		}
	}
	return sheet, nil
}
