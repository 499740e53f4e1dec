package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission is an accepted answer set for one form. Answers is schema-less
// on purpose: its keys and value types are governed by the form's field
// definitions at submission time only. Submissions are immutable once created.
type Submission struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	FormID      uint              `json:"formId" gorm:"not null;index"`
	Answers     datatypes.JSONMap `json:"answers" gorm:"not null"`
	Meta        *SubmissionMeta   `json:"meta,omitempty" gorm:"serializer:json"`
	SubmittedAt time.Time         `json:"submittedAt"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// SubmissionMeta captures where the submission came from.
type SubmissionMeta struct {
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
}
