package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type MedicalWorker struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email           string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Username        string    `gorm:"size:80;uniqueIndex;not null" json:"username"`
	FirstName       string    `gorm:"size:80;not null" json:"first_name"`
	LastName        string    `gorm:"size:80;not null" json:"last_name"`
	PasswordHash    string    `gorm:"size:256;not null" json:"-"`
	Specialization  string    `gorm:"size:50;not null" json:"specialization"`
	LicenseNumber   string    `gorm:"size:50;uniqueIndex;not null" json:"license_number"`
	Institution     string    `gorm:"size:200" json:"institution"`
	Position        string    `gorm:"size:100" json:"position"`
	YearsExperience int       `gorm:"default:0" json:"years_experience"`
	IsModerator     bool      `gorm:"default:false" json:"is_moderator"`
	IsAdmin         bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt       time.Time `json:"created_at"`

	Results []TestResult `gorm:"foreignkey:WorkerID" json:"-"`
}

func (w *MedicalWorker) FullName() string {
	return fmt.Sprintf("%s %s", w.FirstName, w.LastName)
}
