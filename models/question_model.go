package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	QuestionTypeSingle   = "single"
	QuestionTypeMultiple = "multiple"
	QuestionTypeText     = "text"
)

type Question struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TestID       uuid.UUID `gorm:"type:uuid;not null;index" json:"test_id"`
	Text         string    `gorm:"type:text;not null" json:"text"`
	QuestionType string    `gorm:"size:20;default:'single'" json:"question_type"`
	Points       int       `gorm:"default:1" json:"points"`

	// Opaque filename resolved by the upload collaborator; the backend never
	// inspects image bytes.
	ImageFilename string `gorm:"size:255" json:"image_filename"`

	Topic         string `gorm:"size:200" json:"topic"`
	QuestionLevel string `gorm:"size:20;default:'medium'" json:"question_level"`

	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	LastModifiedByID *uuid.UUID `gorm:"type:uuid" json:"last_modified_by_id"`

	LastModifiedBy *MedicalWorker `gorm:"foreignkey:LastModifiedByID" json:"-"`
	Answers        []Answer       `gorm:"foreignkey:QuestionID" json:"answers,omitempty"`
}
