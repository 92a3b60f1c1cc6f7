package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nkoroleva/medtest_platform/models"
	"gorm.io/gorm"
)

// AnswerSubmission is the already-parsed answer for one question. Selection
// questions fill AnswerIDs, text questions fill TextAnswer. The boundary
// layer owns form decoding; the engine never sees raw field maps.
type AnswerSubmission struct {
	QuestionID uuid.UUID   `json:"question_id"`
	AnswerIDs  []uuid.UUID `json:"answer_ids"`
	TextAnswer string      `json:"text_answer"`
}

type GradeOutcome struct {
	Score       int     `json:"score"`
	TotalPoints int     `json:"total_points"`
	Percentage  float64 `json:"percentage"`
	Passed      bool    `json:"passed"`
	TimeTaken   int     `json:"time_taken"`
}

// GradeSubmission scores the submissions against the test's questions and
// finalizes the attempt.
//
// Unanswered questions still count toward total points but produce no
// UserAnswer row. The finalizing update is conditional on completed_at still
// being null, so a concurrent second submit observes ErrAlreadyCompleted
// instead of double-scoring. UserAnswer rows and the result mutation commit
// in one transaction; on failure the attempt stays open for resubmission.
func GradeSubmission(db *gorm.DB, result *models.TestResult, submissions []AnswerSubmission) (*GradeOutcome, error) {
	if result.IsCompleted() {
		return nil, ErrAlreadyCompleted
	}

	var test models.Test
	if err := db.First(&test, "id = ?", result.TestID).Error; err != nil {
		return nil, err
	}

	var questions []models.Question
	if err := db.Preload("Answers").Where("test_id = ?", test.ID).Find(&questions).Error; err != nil {
		return nil, err
	}

	submitted := make(map[uuid.UUID]AnswerSubmission, len(submissions))
	for _, sub := range submissions {
		submitted[sub.QuestionID] = sub
	}

	score := 0
	totalPoints := 0
	var userAnswers []models.UserAnswer

	for i := range questions {
		question := &questions[i]
		totalPoints += question.Points

		sub, ok := submitted[question.ID]
		if !ok {
			continue
		}

		userAnswer, answered := gradeQuestion(result.ID, question, sub)
		if !answered {
			continue
		}

		if userAnswer.IsCorrect {
			score += question.Points
		}
		userAnswers = append(userAnswers, userAnswer)
	}

	percentage := 0.0
	if totalPoints > 0 {
		percentage = float64(score) / float64(totalPoints) * 100
	}
	passed := percentage >= float64(test.PassingScore)

	completedAt := time.Now().UTC()
	timeTaken := int(completedAt.Sub(result.StartedAt).Seconds())

	err := db.Transaction(func(tx *gorm.DB) error {
		finalize := tx.Model(&models.TestResult{}).
			Where("id = ? AND completed_at IS NULL", result.ID).
			Updates(map[string]interface{}{
				"score":        score,
				"percentage":   percentage,
				"passed":       passed,
				"completed_at": completedAt,
				"time_taken":   timeTaken,
			})
		if finalize.Error != nil {
			return finalize.Error
		}
		if finalize.RowsAffected == 0 {
			return ErrAlreadyCompleted
		}

		if len(userAnswers) > 0 {
			if err := tx.Create(&userAnswers).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Score = score
	result.Percentage = percentage
	result.Passed = passed
	result.CompletedAt = &completedAt
	result.TimeTaken = timeTaken

	return &GradeOutcome{
		Score:       score,
		TotalPoints: totalPoints,
		Percentage:  percentage,
		Passed:      passed,
		TimeTaken:   timeTaken,
	}, nil
}

// gradeQuestion returns the UserAnswer row for one submission and whether
// the question counts as answered at all. Unanswered submissions (no
// selection, blank text) are skipped silently.
func gradeQuestion(resultID uuid.UUID, question *models.Question, sub AnswerSubmission) (models.UserAnswer, bool) {
	userAnswer := models.UserAnswer{
		ID:         uuid.New(),
		ResultID:   resultID,
		QuestionID: question.ID,
	}

	switch question.QuestionType {
	case models.QuestionTypeSingle:
		if len(sub.AnswerIDs) == 0 {
			return userAnswer, false
		}
		chosen := findAnswer(question.Answers, sub.AnswerIDs[0])
		if chosen != nil {
			userAnswer.SelectedAnswers = []*models.Answer{chosen}
			userAnswer.IsCorrect = chosen.IsCorrect
		}
		return userAnswer, true

	case models.QuestionTypeMultiple:
		if len(sub.AnswerIDs) == 0 {
			return userAnswer, false
		}
		correctIDs := make(map[uuid.UUID]bool)
		for i := range question.Answers {
			if question.Answers[i].IsCorrect {
				correctIDs[question.Answers[i].ID] = true
			}
		}
		chosenIDs := make(map[uuid.UUID]bool, len(sub.AnswerIDs))
		for _, id := range sub.AnswerIDs {
			chosenIDs[id] = true
			if chosen := findAnswer(question.Answers, id); chosen != nil {
				userAnswer.SelectedAnswers = append(userAnswer.SelectedAnswers, chosen)
			}
		}
		// Exact set match, no partial credit: extra or missing selections
		// both fail the question.
		userAnswer.IsCorrect = setsEqual(chosenIDs, correctIDs)
		return userAnswer, true

	case models.QuestionTypeText:
		text := strings.TrimSpace(sub.TextAnswer)
		if text == "" {
			return userAnswer, false
		}
		userAnswer.TextAnswer = text
		for i := range question.Answers {
			if question.Answers[i].IsCorrect {
				canonical := strings.TrimSpace(question.Answers[i].Text)
				userAnswer.IsCorrect = strings.EqualFold(text, canonical)
				break
			}
		}
		return userAnswer, true
	}

	return userAnswer, false
}

func findAnswer(answers []models.Answer, id uuid.UUID) *models.Answer {
	for i := range answers {
		if answers[i].ID == id {
			return &answers[i]
		}
	}
	return nil
}

func setsEqual(a, b map[uuid.UUID]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if !b[id] {
			return false
		}
	}
	return true
}
