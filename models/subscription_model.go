package models

import (
	"time"

	"github.com/google/uuid"
)

// TestSubscription grants one worker access to one subscribed-type test.
// Unique per (worker, test).
type TestSubscription struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	WorkerID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_pair" json:"worker_id"`
	TestID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_pair" json:"test_id"`
	SubscribedAt time.Time `json:"subscribed_at"`

	Worker MedicalWorker `gorm:"foreignkey:WorkerID" json:"-"`
	Test   Test          `gorm:"foreignkey:TestID" json:"-"`
}
