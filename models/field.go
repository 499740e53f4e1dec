package models

import (
	"time"
)

// Field types accepted by the builder. Radio, select and checkbox fields must
// declare at least one option.
const (
	FieldTypeText     = "text"
	FieldTypeTextarea = "textarea"
	FieldTypeNumber   = "number"
	FieldTypeEmail    = "email"
	FieldTypeDate     = "date"
	FieldTypeCheckbox = "checkbox"
	FieldTypeRadio    = "radio"
	FieldTypeSelect   = "select"
)

func IsValidFieldType(t string) bool {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeNumber, FieldTypeEmail,
		FieldTypeDate, FieldTypeCheckbox, FieldTypeRadio, FieldTypeSelect:
		return true
	}
	return false
}

func IsChoiceFieldType(t string) bool {
	return t == FieldTypeRadio || t == FieldTypeSelect || t == FieldTypeCheckbox
}

type Field struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	FormID     uint            `json:"formId" gorm:"not null;uniqueIndex:idx_form_field_name"`
	Label      string          `json:"label" gorm:"not null"`
	Name       string          `json:"name" gorm:"not null;uniqueIndex:idx_form_field_name"`
	Type       string          `json:"type" gorm:"not null"`
	Required   bool            `json:"required" gorm:"not null;default:false"`
	Options    []FieldOption   `json:"options,omitempty" gorm:"serializer:json"`
	Validation *ValidationRule `json:"validation,omitempty" gorm:"serializer:json"`
	Visibility *VisibilityRule `json:"visibility,omitempty" gorm:"serializer:json"`
	Order      int             `json:"order" gorm:"not null"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// FieldOption is one selectable value of a radio/select/checkbox field.
// Label is the value shown in the UI.
type FieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Order int    `json:"order,omitempty"`
}

// ValidationRule bounds a field's value. Min and Max are value bounds for
// number fields and length bounds for text/textarea fields; nil means no
// bound. Regex, when set, must match the trimmed text value.
type ValidationRule struct {
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
	Regex string   `json:"regex,omitempty"`
}

// VisibilityRule makes a field conditional: the field is only evaluated when
// the parent field's answer equals ShowWhenOptionValue.
type VisibilityRule struct {
	ParentFieldID       uint   `json:"parentFieldId"`
	ShowWhenOptionValue string `json:"showWhenOptionValue"`
}
