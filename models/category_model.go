package models

import "github.com/google/uuid"

type TestCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`

	Tests []Test `gorm:"foreignkey:CategoryID" json:"-"`
}
