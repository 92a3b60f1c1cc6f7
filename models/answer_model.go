package models

import "github.com/google/uuid"

type Answer struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`

	// For text questions exactly one answer per question carries the
	// canonical correct value.
	IsCorrect bool `gorm:"default:false" json:"is_correct"`
}
