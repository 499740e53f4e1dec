package models

import (
	"time"
)

type Form struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	IsArchive   bool      `json:"isArchive" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relationships
	Fields      []Field      `json:"fields,omitempty" gorm:"foreignKey:FormID"`
	Submissions []Submission `json:"submissions,omitempty" gorm:"foreignKey:FormID"`
}
