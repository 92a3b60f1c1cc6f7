package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/nkoroleva/medtest_platform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeSubmission_PartialScore(t *testing.T) {
	db := setupTestDB(t)
	worker := createWorker(t, db, "ivanov", false)
	test := createKnowledgeTest(t, db, nil)

	q1, q1Answers := addQuestion(t, db, test, models.QuestionTypeSingle, 1, []answerSpec{
		{"aorta", true},
		{"vena cava", false},
	})
	q2, q2Answers := addQuestion(t, db, test, models.QuestionTypeMultiple, 2, []answerSpec{
		{"left ventricle", true},
		{"right ventricle", true},
		{"trachea", false},
	})

	result, err := StartAttempt(db, worker, test)
	require.NoError(t, err)

	outcome, err := GradeSubmission(db, result, []AnswerSubmission{
		{QuestionID: q1.ID, AnswerIDs: []uuid.UUID{q1Answers[0].ID}},
		{QuestionID: q2.ID, AnswerIDs: []uuid.UUID{q2Answers[0].ID}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Score)
	assert.Equal(t, 3, outcome.TotalPoints)
	assert.InDelta(t, 100.0/3.0, outcome.Percentage, 0.01)
	assert.False(t, outcome.Passed)
	require.NotNil(t, result.CompletedAt)
}

func TestGradeSubmission_FullScore(t *testing.T) {
	db := setupTestDB(t)
	worker := createWorker(t, db, "ivanov", false)
	test := createKnowledgeTest(t, db, nil)

	q1, q1Answers := addQuestion(t, db, test, models.QuestionTypeSingle, 1, []answerSpec{
		{"aorta", true},
		{"vena cava", false},
	})
	q2, q2Answers := addQuestion(t, db, test, models.QuestionTypeMultiple, 2, []answerSpec{
		{"left ventricle", true},
		{"right ventricle", true},
		{"trachea", false},
	})

	result, err := StartAttempt(db, worker, test)
	require.NoError(t, err)

	outcome, err := GradeSubmission(db, result, []AnswerSubmission{
		{QuestionID: q1.ID, AnswerIDs: []uuid.UUID{q1Answers[0].ID}},
		{QuestionID: q2.ID, AnswerIDs: []uuid.UUID{q2Answers[1].ID, q2Answers[0].ID}},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, outcome.Score)
	assert.InDelta(t, 100.0, outcome.Percentage, 0.01)
	assert.True(t, outcome.Passed)
}

func TestGradeSubmission_MultipleNoPartialCredit(t *testing.T) {
	cases := []struct {
		name   string
		pick   func(answers []models.Answer) []uuid.UUID
		expect bool
	}{
		{
			name: "exact set",
			pick: func(a []models.Answer) []uuid.UUID {
				return []uuid.UUID{a[0].ID, a[1].ID}
			},
			expect: true,
		},
		{
			name: "proper subset",
			pick: func(a []models.Answer) []uuid.UUID {
				return []uuid.UUID{a[0].ID}
			},
			expect: false,
		},
		{
			name: "superset with wrong option",
			pick: func(a []models.Answer) []uuid.UUID {
				return []uuid.UUID{a[0].ID, a[1].ID, a[2].ID}
			},
			expect: false,
		},
		{
			name: "wrong option only",
			pick: func(a []models.Answer) []uuid.UUID {
				return []uuid.UUID{a[2].ID}
			},
			expect: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := setupTestDB(t)
			worker := createWorker(t, db, "ivanov", false)
			test := createKnowledgeTest(t, db, nil)
			question, answers := addQuestion(t, db, test, models.QuestionTypeMultiple, 2, []answerSpec{
				{"A", true},
				{"B", true},
				{"C", false},
			})

			result, err := StartAttempt(db, worker, test)
			require.NoError(t, err)

			outcome, err := GradeSubmission(db, result, []AnswerSubmission{
				{QuestionID: question.ID, AnswerIDs: tc.pick(answers)},
			})
			require.NoError(t, err)

			if tc.expect {
				assert.Equal(t, 2, outcome.Score)
			} else {
				assert.Equal(t, 0, outcome.Score)
			}
		})
	}
}

func TestGradeSubmission_TextCaseAndWhitespaceFolded(t *testing.T) {
	db := setupTestDB(t)
	worker := createWorker(t, db, "ivanov", false)
	test := createKnowledgeTest(t, db, func(tt *models.Test) {
		tt.PassingScore = 100
	})
	question, _ := addQuestion(t, db, test, models.QuestionTypeText, 1, []answerSpec{
		{"Печень", true},
	})

	result, err := StartAttempt(db, worker, test)
	require.NoError(t, err)

	outcome, err := GradeSubmission(db, result, []AnswerSubmission{
		{QuestionID: question.ID, TextAnswer: "печень "},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Score)
	assert.True(t, outcome.Passed)
}

func TestGradeSubmission_TextWrongAnswer(t *testing.T) {
	db := setupTestDB(t)
	worker := createWorker(t, db, "ivanov", false)
	test := createKnowledgeTest(t, db, nil)
	question, _ := addQuestion(t, db, test, models.QuestionTypeText, 1, []answerSpec{
		{"Печень", true},
	})

	result, err := StartAttempt(db, worker, test)
	require.NoError(t, err)

	outcome, err := GradeSubmission(db, result, []AnswerSubmission{
		{QuestionID: question.ID, TextAnswer: "почка"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Score)
}

func TestGradeSubmission_UnansweredQuestionSkipped(t *testing.T) {
	db := setupTestDB(t)
	worker := createWorker(t, db, "ivanov", false)
	test := createKnowledgeTest(t, db, nil)

	q1, q1Answers := addQuestion(t, db, test, models.QuestionTypeSingle, 1, []answerSpec{
		{"aorta", true},
		{"vena cava", false},
	})
	q2, _ := addQuestion(t, db, test, models.QuestionTypeSingle, 2, []answerSpec{
		{"femur", true},
		{"tibia", false},
	})

	result, err := StartAttempt(db, worker, test)
	require.NoError(t, err)

	outcome, err := GradeSubmission(db, result, []AnswerSubmission{
		{QuestionID: q1.ID, AnswerIDs: []uuid.UUID{q1Answers[0].ID}},
	})
	require.NoError(t, err)

	// The unanswered question still counts toward the total but leaves no
	// UserAnswer row behind.
	assert.Equal(t, 1, outcome.Score)
	assert.Equal(t, 3, outcome.TotalPoints)

	var rows int64
	db.Model(&models.UserAnswer{}).Where("result_id = ?", result.ID).Count(&rows)
	assert.EqualValues(t, 1, rows)

	var stray int64
	db.Model(&models.UserAnswer{}).
		Where("result_id = ? AND question_id = ?", result.ID, q2.ID).Count(&stray)
	assert.EqualValues(t, 0, stray)
}

func TestGradeSubmission_ZeroTotalPoints(t *testing.T) {
	db := setupTestDB(t)
	worker := createWorker(t, db, "ivanov", false)
	test := createKnowledgeTest(t, db, nil)

	result, err := StartAttempt(db, worker, test)
	require.NoError(t, err)

	outcome, err := GradeSubmission(db, result, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, outcome.Score)
	assert.Equal(t, 0, outcome.TotalPoints)
	assert.Equal(t, 0.0, outcome.Percentage)
	assert.False(t, outcome.Passed)
}

func TestGradeSubmission_SecondCallRefused(t *testing.T) {
	db := setupTestDB(t)
	worker := createWorker(t, db, "ivanov", false)
	test := createKnowledgeTest(t, db, nil)
	question, answers := addQuestion(t, db, test, models.QuestionTypeSingle, 1, []answerSpec{
		{"aorta", true},
		{"vena cava", false},
	})

	result, err := StartAttempt(db, worker, test)
	require.NoError(t, err)

	submissions := []AnswerSubmission{
		{QuestionID: question.ID, AnswerIDs: []uuid.UUID{answers[0].ID}},
	}
	first, err := GradeSubmission(db, result, submissions)
	require.NoError(t, err)

	_, err = GradeSubmission(db, result, submissions)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)

	// A caller holding a stale, still-open copy of the row hits the
	// conditional update instead of the fast path.
	var stale models.TestResult
	require.NoError(t, db.First(&stale, "id = ?", result.ID).Error)
	stale.CompletedAt = nil
	_, err = GradeSubmission(db, &stale, submissions)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)

	var persisted models.TestResult
	require.NoError(t, db.First(&persisted, "id = ?", result.ID).Error)
	assert.Equal(t, first.Score, persisted.Score)
	assert.InDelta(t, first.Percentage, persisted.Percentage, 0.001)
	assert.Equal(t, first.Passed, persisted.Passed)
}

func TestGradeSubmission_SelectionOutsideQuestionIgnored(t *testing.T) {
	db := setupTestDB(t)
	worker := createWorker(t, db, "ivanov", false)
	test := createKnowledgeTest(t, db, nil)
	question, _ := addQuestion(t, db, test, models.QuestionTypeSingle, 1, []answerSpec{
		{"aorta", true},
		{"vena cava", false},
	})

	result, err := StartAttempt(db, worker, test)
	require.NoError(t, err)

	outcome, err := GradeSubmission(db, result, []AnswerSubmission{
		{QuestionID: question.ID, AnswerIDs: []uuid.UUID{uuid.New()}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Score)

	// Answered, just wrong: the UserAnswer row is still recorded.
	var rows int64
	db.Model(&models.UserAnswer{}).Where("result_id = ?", result.ID).Count(&rows)
	assert.EqualValues(t, 1, rows)
}
