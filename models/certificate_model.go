package models

import (
	"time"

	"github.com/google/uuid"
)

type Certificate struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	WorkerID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_certificate_pair" json:"worker_id"`
	TestID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_certificate_pair" json:"test_id"`
	Serial         string    `gorm:"size:20;uniqueIndex;not null" json:"serial"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	IssuedAt       time.Time `json:"issued_at"`
	CertificateURL string    `gorm:"size:512" json:"certificate_url"`

	Worker MedicalWorker `gorm:"foreignkey:WorkerID" json:"-"`
	Test   Test          `gorm:"foreignkey:TestID" json:"-"`
}
