package services

import (
	"errors"
	"time"

	"openform/models"
	"openform/validation"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubmissionService struct {
	db *gorm.DB
}

func NewSubmissionService(db *gorm.DB) *SubmissionService {
	return &SubmissionService{db: db}
}

type SubmitFormRequest struct {
	Answers map[string]interface{} `json:"answers"`
}

// SubmitForm runs the validation pipeline over the form's current field
// definitions. On validation failure it returns the per-field error map and
// persists nothing; on success it stores the sanitized answers together with
// the capture metadata.
func (s *SubmissionService) SubmitForm(formID uint, answers map[string]interface{}, meta *models.SubmissionMeta) (map[string]string, error) {
	var form models.Form
	if err := s.db.First(&form, formID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	if form.IsArchive {
		return nil, ErrFormNotFound
	}

	var fields []models.Field
	if err := s.db.Where("form_id = ?", formID).Order("\"order\" ASC").Find(&fields).Error; err != nil {
		return nil, err
	}

	sanitized, validationErrors := validation.Validate(fields, answers)
	if validationErrors != nil {
		return validationErrors, nil
	}

	submission := models.Submission{
		FormID:      formID,
		Answers:     datatypes.JSONMap(sanitized),
		Meta:        meta,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.db.Create(&submission).Error; err != nil {
		return nil, err
	}

	return nil, nil
}

// ListSubmissions returns one page of a form's submissions, newest first,
// together with the total count.
func (s *SubmissionService) ListSubmissions(formID uint, page, limit int) ([]models.Submission, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int64
	if err := s.db.Model(&models.Submission{}).Where("form_id = ?", formID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var submissions []models.Submission
	err := s.db.Where("form_id = ?", formID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&submissions).Error
	if err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}
