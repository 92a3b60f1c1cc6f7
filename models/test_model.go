package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AccessTypeSimple     = "simple"
	AccessTypeSubscribed = "subscribed"
)

type Test struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	CategoryID  *uuid.UUID `gorm:"type:uuid" json:"category_id"`
	Difficulty  string     `gorm:"size:20;default:'medium'" json:"difficulty"`

	// Seconds. Recorded on results but never enforced against an open attempt.
	TimeLimit    int `gorm:"default:3600" json:"time_limit"`
	PassingScore int `gorm:"default:70" json:"passing_score"`

	// simple tests are open to every worker while active, subscribed tests
	// additionally require a TestSubscription row.
	AccessType string `gorm:"size:20;not null;default:'simple'" json:"access_type"`

	// 0 means unlimited.
	MaxAttempts int `gorm:"default:1" json:"max_attempts"`

	IsStrictMode     bool `gorm:"default:true" json:"is_strict_mode"`
	ShuffleQuestions bool `gorm:"default:false" json:"shuffle_questions"`
	ShuffleAnswers   bool `gorm:"default:false" json:"shuffle_answers"`

	IsActive  bool       `gorm:"default:true" json:"is_active"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`

	Category  *TestCategory `gorm:"foreignkey:CategoryID" json:"category,omitempty"`
	Questions []Question    `gorm:"foreignkey:TestID" json:"questions,omitempty"`
	Results   []TestResult  `gorm:"foreignkey:TestID" json:"-"`
}
