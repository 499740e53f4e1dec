package services

import "errors"

var (
	ErrFormNotFound       = errors.New("form not found")
	ErrFieldNotFound      = errors.New("field not found")
	ErrMissingFieldAttrs  = errors.New("label, name and type are required")
	ErrInvalidFieldType   = errors.New("invalid field type")
	ErrOptionsRequired    = errors.New("options are required for choice fields")
	ErrDuplicateFieldName = errors.New("field name already exists in this form")
	ErrInvalidPattern     = errors.New("invalid validation pattern")
	ErrHasSubmissions     = errors.New("form has submissions")
)
