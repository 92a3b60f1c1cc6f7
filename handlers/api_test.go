package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nkoroleva/medtest_platform/database"
	"github.com/nkoroleva/medtest_platform/models"
	"github.com/nkoroleva/medtest_platform/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "api.db")), &gorm.Config{
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
	database.DB = db

	app := fiber.New()
	routes.AuthRoutes(app)
	routes.TestRoutes(app)
	routes.ModeratorRoutes(app)
	routes.AdminRoutes(app)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, token string, payload interface{}) (map[string]interface{}, int) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return result, resp.StatusCode
}

func registerAndLogin(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	_, status := postJSON(t, app, "/api/v1/auth/register", "", map[string]interface{}{
		"email":          username + "@clinic.example",
		"username":       username,
		"first_name":     "Anna",
		"last_name":      "Petrova",
		"password":       "secret123",
		"specialization": "cardiology",
		"license_number": "LIC-" + username,
	})
	require.Equal(t, fiber.StatusCreated, status)

	result, status := postJSON(t, app, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    username + "@clinic.example",
		"password": "secret123",
	})
	require.Equal(t, fiber.StatusOK, status)

	token, _ := result["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterLoginAndProfile(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "apetrova")

	req := httptest.NewRequest("GET", "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var profile map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&profile)
	assert.EqualValues(t, 0, profile["total_tests"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	app := setupApp(t)
	registerAndLogin(t, app, "apetrova")

	_, status := postJSON(t, app, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "apetrova@clinic.example",
		"password": "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestTakeTestEndToEnd(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "apetrova")

	test := models.Test{
		ID:           uuid.New(),
		Title:        "Cardiology basics",
		Difficulty:   "medium",
		TimeLimit:    1800,
		PassingScore: 50,
		AccessType:   models.AccessTypeSimple,
		MaxAttempts:  1,
		IsActive:     true,
	}
	require.NoError(t, database.DB.Create(&test).Error)

	question := models.Question{
		ID:           uuid.New(),
		TestID:       test.ID,
		Text:         "Which vessel carries oxygenated blood?",
		QuestionType: models.QuestionTypeSingle,
		Points:       1,
	}
	require.NoError(t, database.DB.Create(&question).Error)

	correct := models.Answer{ID: uuid.New(), QuestionID: question.ID, Text: "aorta", IsCorrect: true}
	wrong := models.Answer{ID: uuid.New(), QuestionID: question.ID, Text: "vena cava"}
	require.NoError(t, database.DB.Create(&correct).Error)
	require.NoError(t, database.DB.Create(&wrong).Error)

	started, status := postJSON(t, app, fmt.Sprintf("/api/v1/tests/%s/start", test.ID), token, nil)
	require.Equal(t, fiber.StatusCreated, status)
	resultID, _ := started["result_id"].(string)
	require.NotEmpty(t, resultID)
	require.Len(t, started["questions"], 1)

	submitted, status := postJSON(t, app, fmt.Sprintf("/api/v1/attempts/%s/submit", resultID), token, map[string]interface{}{
		"answers": []map[string]interface{}{
			{
				"question_id": question.ID.String(),
				"answer_ids":  []string{correct.ID.String()},
			},
		},
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 1, submitted["score"])
	assert.Equal(t, true, submitted["passed"])

	// Resubmission is refused and points back at the finished result.
	conflict, status := postJSON(t, app, fmt.Sprintf("/api/v1/attempts/%s/submit", resultID), token, map[string]interface{}{
		"answers": []map[string]interface{}{
			{
				"question_id": question.ID.String(),
				"answer_ids":  []string{wrong.ID.String()},
			},
		},
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, resultID, conflict["result_id"])

	req := httptest.NewRequest("GET", "/api/v1/results/"+resultID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var report map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&report)
	detailed, _ := report["detailed_answers"].([]interface{})
	require.Len(t, detailed, 1)

	// A second start on a simple single-attempt test redirects instead of
	// opening a duplicate.
	redirected, status := postJSON(t, app, fmt.Sprintf("/api/v1/tests/%s/start", test.ID), token, nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, resultID, redirected["result_id"])
}

func TestModeratorRoutesRequireRole(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "apetrova")

	_, status := postJSON(t, app, "/api/v1/moderator/tests", token, map[string]interface{}{
		"title":              "Anatomy",
		"time_limit_minutes": 30,
		"passing_score":      70,
	})
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestModeratorAuthoringFlow(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "moderator")
	require.NoError(t, database.DB.Model(&models.MedicalWorker{}).
		Where("username = ?", "moderator").
		Update("is_moderator", true).Error)
	// Re-login so the token carries the moderator claim.
	login, status := postJSON(t, app, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "moderator@clinic.example",
		"password": "secret123",
	})
	require.Equal(t, fiber.StatusOK, status)
	token, _ = login["token"].(string)

	created, status := postJSON(t, app, "/api/v1/moderator/tests", token, map[string]interface{}{
		"title":              "Anatomy",
		"time_limit_minutes": 30,
		"passing_score":      70,
		"access_type":        "subscribed",
		"max_attempts":       2,
	})
	require.Equal(t, fiber.StatusCreated, status)
	testID, _ := created["id"].(string)
	require.NotEmpty(t, testID)

	question, status := postJSON(t, app, fmt.Sprintf("/api/v1/moderator/tests/%s/questions", testID), token, map[string]interface{}{
		"text":          "Name the largest gland",
		"question_type": "text",
		"points":        2,
		"answers": []map[string]interface{}{
			{"text": "Печень", "is_correct": true},
		},
	})
	require.Equal(t, fiber.StatusCreated, status)
	answers, _ := question["answers"].([]interface{})
	assert.Len(t, answers, 1)
}
