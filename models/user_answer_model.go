package models

import "github.com/google/uuid"

// UserAnswer records what a worker submitted for one question of one
// attempt. Selected answers live in the user_answer_selections join table;
// text questions use TextAnswer and leave the selection set empty.
type UserAnswer struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ResultID   uuid.UUID `gorm:"type:uuid;not null;index" json:"result_id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null" json:"question_id"`
	TextAnswer string    `gorm:"type:text" json:"text_answer"`
	IsCorrect  bool      `json:"is_correct"`

	Result   TestResult `gorm:"foreignkey:ResultID" json:"-"`
	Question Question   `gorm:"foreignkey:QuestionID" json:"-"`

	SelectedAnswers []*Answer `gorm:"many2many:user_answer_selections;" json:"selected_answers,omitempty"`
}
