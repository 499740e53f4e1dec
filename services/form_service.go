package services

import (
	"errors"
	"strings"
	"time"

	"openform/models"

	"gorm.io/gorm"
)

type FormService struct {
	db    *gorm.DB
	cache *DefinitionCache
}

func NewFormService(db *gorm.DB, cache *DefinitionCache) *FormService {
	return &FormService{db: db, cache: cache}
}

type CreateFormRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=120"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}

type UpdateFormRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=3,max=120"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	IsArchive   *bool   `json:"isArchive"`
}

// PublicForm is the reduced listing shape exposed to end users.
type PublicForm struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (s *FormService) CreateForm(req *CreateFormRequest) (*models.Form, error) {
	form := models.Form{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
	}

	if err := s.db.Create(&form).Error; err != nil {
		return nil, err
	}

	return &form, nil
}

func (s *FormService) ListFormsAdmin() ([]models.Form, error) {
	var forms []models.Form
	err := s.db.Order("created_at DESC").Find(&forms).Error
	return forms, err
}

func (s *FormService) ListFormsPublic() ([]PublicForm, error) {
	var forms []PublicForm
	err := s.db.Model(&models.Form{}).
		Where("is_archive = ?", false).
		Order("created_at DESC").
		Find(&forms).Error
	return forms, err
}

// GetFormDefinition returns a non-archived form with its ordered fields,
// consulting the Redis cache first. Archived and missing forms are
// indistinguishable to the caller.
func (s *FormService) GetFormDefinition(formID uint) (*FormDefinition, error) {
	if def, ok := s.cache.Get(formID); ok {
		return def, nil
	}

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

	def := &FormDefinition{Form: form, Fields: fields}
	s.cache.Set(formID, def)
	return def, nil
}

func (s *FormService) UpdateForm(formID uint, req *UpdateFormRequest) (*models.Form, error) {
	var form models.Form
	if err := s.db.First(&form, formID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		form.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		form.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsArchive != nil {
		form.IsArchive = *req.IsArchive
	}

	if err := s.db.Save(&form).Error; err != nil {
		return nil, err
	}

	s.cache.Invalidate(formID)
	return &form, nil
}

// DeleteForm hard-deletes a form and its fields. It is blocked while any
// submission still references the form; the caller should archive instead.
func (s *FormService) DeleteForm(formID uint) error {
	var count int64
	if err := s.db.Model(&models.Submission{}).Where("form_id = ?", formID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrHasSubmissions
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var form models.Form
		if err := tx.First(&form, formID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFormNotFound
			}
			return err
		}
		if err := tx.Where("form_id = ?", formID).Delete(&models.Field{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Form{}, formID).Error
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(formID)
	return nil
}
