package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nkoroleva/medtest_platform/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "medtest.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.MedicalWorker{},
		&models.TestCategory{},
		&models.Test{},
		&models.Question{},
		&models.Answer{},
		&models.TestSubscription{},
		&models.TestResult{},
		&models.UserAnswer{},
		&models.Certificate{},
	))
	return db
}

func createWorker(t *testing.T, db *gorm.DB, username string, moderator bool) *models.MedicalWorker {
	t.Helper()

	worker := models.MedicalWorker{
		ID:             uuid.New(),
		Email:          username + "@clinic.example",
		Username:       username,
		FirstName:      "Test",
		LastName:       "Worker",
		PasswordHash:   "x",
		Specialization: "cardiology",
		LicenseNumber:  "LIC-" + username,
		IsModerator:    moderator,
	}
	require.NoError(t, db.Create(&worker).Error)
	return &worker
}

func createKnowledgeTest(t *testing.T, db *gorm.DB, mutate func(*models.Test)) *models.Test {
	t.Helper()

	test := models.Test{
		ID:           uuid.New(),
		Title:        "Basic anatomy",
		Difficulty:   "medium",
		TimeLimit:    3600,
		PassingScore: 70,
		AccessType:   models.AccessTypeSimple,
		MaxAttempts:  1,
		IsActive:     true,
	}
	if mutate != nil {
		mutate(&test)
	}
	require.NoError(t, db.Create(&test).Error)
	return &test
}

type answerSpec struct {
	text    string
	correct bool
}

func addQuestion(t *testing.T, db *gorm.DB, test *models.Test, questionType string, points int, answers []answerSpec) (*models.Question, []models.Answer) {
	t.Helper()

	question := models.Question{
		ID:           uuid.New(),
		TestID:       test.ID,
		Text:         "Question for " + test.Title,
		QuestionType: questionType,
		Points:       points,
	}
	require.NoError(t, db.Create(&question).Error)

	created := make([]models.Answer, 0, len(answers))
	for _, spec := range answers {
		answer := models.Answer{
			ID:         uuid.New(),
			QuestionID: question.ID,
			Text:       spec.text,
			IsCorrect:  spec.correct,
		}
		require.NoError(t, db.Create(&answer).Error)
		created = append(created, answer)
	}
	return &question, created
}

func subscribe(t *testing.T, db *gorm.DB, worker *models.MedicalWorker, test *models.Test) {
	t.Helper()

	subscription := models.TestSubscription{
		ID:           uuid.New(),
		WorkerID:     worker.ID,
		TestID:       test.ID,
		SubscribedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&subscription).Error)
}
