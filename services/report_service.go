package services

import (
	"github.com/nkoroleva/medtest_platform/models"
	"gorm.io/gorm"
)

// DetailedAnswer pairs one answered question with what the worker selected
// and what would have been correct.
type DetailedAnswer struct {
	Question       models.Question `json:"question"`
	UserAnswers    []models.Answer `json:"user_answers"`
	CorrectAnswers []models.Answer `json:"correct_answers"`
	TextAnswer     string          `json:"text_answer,omitempty"`
	IsCorrect      bool            `json:"is_correct"`
}

// BuildReport assembles the per-question breakdown for a completed (or
// still open) attempt. Ordered by question id so repeated calls render the
// same sequence. Text questions carry an empty selection set.
func BuildReport(db *gorm.DB, result *models.TestResult) ([]DetailedAnswer, error) {
	var userAnswers []models.UserAnswer
	err := db.Preload("SelectedAnswers").
		Where("result_id = ?", result.ID).
		Order("question_id").
		Find(&userAnswers).Error
	if err != nil {
		return nil, err
	}

	report := make([]DetailedAnswer, 0, len(userAnswers))
	for _, ua := range userAnswers {
		var question models.Question
		if err := db.First(&question, "id = ?", ua.QuestionID).Error; err != nil {
			return nil, err
		}

		var correctAnswers []models.Answer
		if err := db.Where("question_id = ? AND is_correct = ?", ua.QuestionID, true).
			Find(&correctAnswers).Error; err != nil {
			return nil, err
		}

		selected := make([]models.Answer, 0, len(ua.SelectedAnswers))
		for _, a := range ua.SelectedAnswers {
			selected = append(selected, *a)
		}

		report = append(report, DetailedAnswer{
			Question:       question,
			UserAnswers:    selected,
			CorrectAnswers: correctAnswers,
			TextAnswer:     ua.TextAnswer,
			IsCorrect:      ua.IsCorrect,
		})
	}

	return report, nil
}
