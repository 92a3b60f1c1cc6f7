package models

import (
	"time"

	"github.com/google/uuid"
)

// TestResult is one attempt of one worker at one test. Created open at
// start, mutated exactly once at completion, terminal afterwards.
type TestResult struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	WorkerID uuid.UUID `gorm:"type:uuid;not null;index" json:"worker_id"`
	TestID   uuid.UUID `gorm:"type:uuid;not null;index" json:"test_id"`

	Score      int     `json:"score"`
	Percentage float64 `json:"percentage"`
	Passed     bool    `json:"passed"`

	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`

	// Whole seconds between start and completion.
	TimeTaken int `json:"time_taken"`

	Worker  MedicalWorker `gorm:"foreignkey:WorkerID" json:"-"`
	Test    Test          `gorm:"foreignkey:TestID" json:"-"`
	Answers []UserAnswer  `gorm:"foreignkey:ResultID" json:"-"`
}

func (r *TestResult) IsCompleted() bool {
	return r.CompletedAt != nil
}
