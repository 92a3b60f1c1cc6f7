package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/nkoroleva/medtest_platform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport_ResolvesSelectionsAndCorrectAnswers(t *testing.T) {
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
	q3, _ := addQuestion(t, db, test, models.QuestionTypeText, 1, []answerSpec{
		{"Печень", true},
	})

	result, err := StartAttempt(db, worker, test)
	require.NoError(t, err)

	_, err = GradeSubmission(db, result, []AnswerSubmission{
		{QuestionID: q1.ID, AnswerIDs: []uuid.UUID{q1Answers[1].ID}},
		{QuestionID: q2.ID, AnswerIDs: []uuid.UUID{q2Answers[0].ID, q2Answers[1].ID}},
		{QuestionID: q3.ID, TextAnswer: "печень"},
	})
	require.NoError(t, err)

	report, err := BuildReport(db, result)
	require.NoError(t, err)
	require.Len(t, report, 3)

	byQuestion := make(map[uuid.UUID]DetailedAnswer, len(report))
	for _, entry := range report {
		byQuestion[entry.Question.ID] = entry
	}

	single := byQuestion[q1.ID]
	require.Len(t, single.UserAnswers, 1)
	assert.Equal(t, q1Answers[1].ID, single.UserAnswers[0].ID)
	require.Len(t, single.CorrectAnswers, 1)
	assert.Equal(t, q1Answers[0].ID, single.CorrectAnswers[0].ID)
	assert.False(t, single.IsCorrect)

	multiple := byQuestion[q2.ID]
	assert.Len(t, multiple.UserAnswers, 2)
	assert.Len(t, multiple.CorrectAnswers, 2)
	assert.True(t, multiple.IsCorrect)

	// Text questions carry the free text and an empty selection set.
	text := byQuestion[q3.ID]
	assert.Empty(t, text.UserAnswers)
	assert.Equal(t, "печень", text.TextAnswer)
	assert.True(t, text.IsCorrect)
}

func TestBuildReport_OrderedByQuestionID(t *testing.T) {
	db := setupTestDB(t)
	worker := createWorker(t, db, "ivanov", false)
	test := createKnowledgeTest(t, db, nil)

	var submissions []AnswerSubmission
	for i := 0; i < 4; i++ {
		question, answers := addQuestion(t, db, test, models.QuestionTypeSingle, 1, []answerSpec{
			{"yes", true},
			{"no", false},
		})
		submissions = append(submissions, AnswerSubmission{
			QuestionID: question.ID,
			AnswerIDs:  []uuid.UUID{answers[0].ID},
		})
	}

	result, err := StartAttempt(db, worker, test)
	require.NoError(t, err)
	_, err = GradeSubmission(db, result, submissions)
	require.NoError(t, err)

	first, err := BuildReport(db, result)
	require.NoError(t, err)
	second, err := BuildReport(db, result)
	require.NoError(t, err)

	require.Len(t, first, 4)
	require.Len(t, second, 4)
	for i := range first {
		assert.Equal(t, first[i].Question.ID, second[i].Question.ID)
	}
	for i := 1; i < len(first); i++ {
		assert.True(t, first[i-1].Question.ID.String() <= first[i].Question.ID.String())
	}
}

func TestBuildReport_EmptyAttempt(t *testing.T) {
	db := setupTestDB(t)
	worker := createWorker(t, db, "ivanov", false)
	test := createKnowledgeTest(t, db, nil)

	result, err := StartAttempt(db, worker, test)
	require.NoError(t, err)

	report, err := BuildReport(db, result)
	require.NoError(t, err)
	assert.Empty(t, report)
}
