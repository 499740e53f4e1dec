package services

import (
	"errors"
	"regexp"
	"strings"

	"openform/models"

	"gorm.io/gorm"
)

type FieldService struct {
	db    *gorm.DB
	cache *DefinitionCache
}

func NewFieldService(db *gorm.DB, cache *DefinitionCache) *FieldService {
	return &FieldService{db: db, cache: cache}
}

type CreateFieldRequest struct {
	Label      string                 `json:"label"`
	Name       string                 `json:"name"`
	Type       string                 `json:"type"`
	Required   bool                   `json:"required"`
	Options    []models.FieldOption   `json:"options"`
	Validation *models.ValidationRule `json:"validation"`
	Visibility *models.VisibilityRule `json:"visibility"`
}

type UpdateFieldRequest struct {
	Label      *string                `json:"label"`
	Name       *string                `json:"name"`
	Type       *string                `json:"type"`
	Required   *bool                  `json:"required"`
	Options    []models.FieldOption   `json:"options"`
	Validation *models.ValidationRule `json:"validation"`
	Visibility *models.VisibilityRule `json:"visibility"`
	Order      *int                   `json:"order"`
}

// FieldOrder is one entry of a reorder batch. Order is a pointer so an
// explicit zero survives binding.
type FieldOrder struct {
	FieldID uint `json:"fieldId" binding:"required"`
	Order   *int `json:"order" binding:"required"`
}

type ReorderFieldsRequest struct {
	FieldsOrder []FieldOrder `json:"fieldsOrder" binding:"required,dive"`
}

func validateRule(rule *models.ValidationRule) error {
	if rule == nil || rule.Regex == "" {
		return nil
	}
	if _, err := regexp.Compile(rule.Regex); err != nil {
		return ErrInvalidPattern
	}
	return nil
}

// CreateField appends a field to a form. The order index is always one past
// the current maximum (1 for the first field) and is never reused, so
// deletions leave gaps.
func (s *FieldService) CreateField(formID uint, req *CreateFieldRequest) (*models.Field, error) {
	var form models.Form
	if err := s.db.First(&form, formID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}

	label := strings.TrimSpace(req.Label)
	name := strings.TrimSpace(req.Name)
	if label == "" || name == "" || req.Type == "" {
		return nil, ErrMissingFieldAttrs
	}
	if !models.IsValidFieldType(req.Type) {
		return nil, ErrInvalidFieldType
	}
	if models.IsChoiceFieldType(req.Type) && len(req.Options) == 0 {
		return nil, ErrOptionsRequired
	}
	if err := validateRule(req.Validation); err != nil {
		return nil, err
	}

	field := models.Field{
		FormID:     formID,
		Label:      label,
		Name:       name,
		Type:       req.Type,
		Required:   req.Required,
		Options:    req.Options,
		Validation: req.Validation,
		Visibility: req.Visibility,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var duplicates int64
		if err := tx.Model(&models.Field{}).
			Where("form_id = ? AND name = ?", formID, name).
			Count(&duplicates).Error; err != nil {
			return err
		}
		if duplicates > 0 {
			return ErrDuplicateFieldName
		}

		var last models.Field
		err := tx.Where("form_id = ?", formID).Order("\"order\" DESC").First(&last).Error
		switch {
		case err == nil:
			field.Order = last.Order + 1
		case errors.Is(err, gorm.ErrRecordNotFound):
			field.Order = 1
		default:
			return err
		}

		return tx.Create(&field).Error
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(formID)
	return &field, nil
}

func (s *FieldService) UpdateField(fieldID uint, req *UpdateFieldRequest) (*models.Field, error) {
	var field models.Field
	if err := s.db.First(&field, fieldID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFieldNotFound
		}
		return nil, err
	}

	if req.Type != nil {
		if !models.IsValidFieldType(*req.Type) {
			return nil, ErrInvalidFieldType
		}
		field.Type = *req.Type
	}
	if req.Label != nil {
		field.Label = strings.TrimSpace(*req.Label)
	}
	if req.Name != nil {
		field.Name = strings.TrimSpace(*req.Name)
	}
	if req.Required != nil {
		field.Required = *req.Required
	}
	if req.Options != nil {
		field.Options = req.Options
	}
	if req.Validation != nil {
		if err := validateRule(req.Validation); err != nil {
			return nil, err
		}
		field.Validation = req.Validation
	}
	if req.Visibility != nil {
		field.Visibility = req.Visibility
	}
	if req.Order != nil {
		field.Order = *req.Order
	}

	if models.IsChoiceFieldType(field.Type) && len(field.Options) == 0 {
		return nil, ErrOptionsRequired
	}

	if err := s.db.Save(&field).Error; err != nil {
		return nil, err
	}

	s.cache.Invalidate(field.FormID)
	return &field, nil
}

// DeleteField removes a single field. Remaining fields keep their order
// indexes; listings sort ascending and tolerate the gap.
func (s *FieldService) DeleteField(fieldID uint) error {
	var field models.Field
	if err := s.db.First(&field, fieldID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFieldNotFound
		}
		return err
	}

	if err := s.db.Delete(&models.Field{}, fieldID).Error; err != nil {
		return err
	}

	s.cache.Invalidate(field.FormID)
	return nil
}

// ReorderFields applies a caller-supplied batch of order assignments in one
// transaction. Each update is scoped to the form, so an entry naming a field
// of another form is silently skipped.
func (s *FieldService) ReorderFields(formID uint, orders []FieldOrder) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, o := range orders {
			if o.Order == nil {
				continue
			}
			err := tx.Model(&models.Field{}).
				Where("id = ? AND form_id = ?", o.FieldID, formID).
				Update("order", *o.Order).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(formID)
	return nil
}

func (s *FieldService) ListFields(formID uint) ([]models.Field, error) {
	var fields []models.Field
	err := s.db.Where("form_id = ?", formID).Order("\"order\" ASC").Find(&fields).Error
	return fields, err
}
