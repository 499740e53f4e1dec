// Package validation implements the submission pipeline: it interprets a
// form's field definitions against a raw answer payload and produces either a
// sanitized, type-coerced answer map or a per-field error map.
package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"openform/models"
)

// checker validates and coerces one raw answer for a single field type.
// It returns the sanitized value, whether that value belongs in the output,
// and a non-empty message when the answer is invalid.
type checker interface {
	check(field *models.Field, raw interface{}, present bool) (interface{}, bool, string)
}

var checkers = map[string]checker{
	models.FieldTypeNumber:   numberChecker{},
	models.FieldTypeRadio:    optionChecker{},
	models.FieldTypeSelect:   optionChecker{},
	models.FieldTypeText:     textChecker{},
	models.FieldTypeTextarea: textChecker{},
}

// Validate runs one pass over the fields in ascending order. Every field is
// evaluated independently; all failures are collected and reported together.
// On any failure the sanitized output is discarded and only the error map is
// returned. Fields hidden by an unmatched visibility rule are skipped
// entirely: no required check, no error, no output entry.
func Validate(fields []models.Field, answers map[string]interface{}) (map[string]interface{}, map[string]string) {
	fieldsByID := make(map[uint]*models.Field, len(fields))
	for i := range fields {
		fieldsByID[fields[i].ID] = &fields[i]
	}

	sanitized := make(map[string]interface{})
	errs := make(map[string]string)

	for i := range fields {
		field := &fields[i]
		if hidden(field, fieldsByID, answers) {
			continue
		}

		raw, present := answers[field.Name]
		if field.Required && (!present || raw == "") {
			errs[field.Name] = "This field is required."
			continue
		}

		c, ok := checkers[field.Type]
		if !ok {
			// email, date, checkbox: copied through unchanged when present
			if present {
				sanitized[field.Name] = raw
			}
			continue
		}

		value, keep, msg := c.check(field, raw, present)
		if msg != "" {
			errs[field.Name] = msg
			continue
		}
		if keep {
			sanitized[field.Name] = value
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return sanitized, nil
}

// hidden reports whether a visibility rule suppresses the field. A rule whose
// parent field no longer exists counts as unmet, so the field stays hidden
// rather than failing a submission over a condition the user cannot see.
func hidden(field *models.Field, fieldsByID map[uint]*models.Field, answers map[string]interface{}) bool {
	vis := field.Visibility
	if vis == nil || vis.ParentFieldID == 0 {
		return false
	}
	parent, ok := fieldsByID[vis.ParentFieldID]
	if !ok {
		return true
	}
	return answers[parent.Name] != vis.ShowWhenOptionValue
}

type numberChecker struct{}

func (numberChecker) check(field *models.Field, raw interface{}, present bool) (interface{}, bool, string) {
	if !present {
		return nil, false, ""
	}
	num, ok := toNumber(raw)
	if !ok {
		return nil, false, "Value must be a number."
	}
	if v := field.Validation; v != nil {
		if v.Min != nil && num < *v.Min {
			return nil, false, fmt.Sprintf("Minimum value is %s.", formatBound(*v.Min))
		}
		if v.Max != nil && num > *v.Max {
			return nil, false, fmt.Sprintf("Maximum value is %s.", formatBound(*v.Max))
		}
	}
	return num, true, ""
}

type optionChecker struct{}

func (optionChecker) check(field *models.Field, raw interface{}, present bool) (interface{}, bool, string) {
	if !present {
		return nil, false, ""
	}
	for _, opt := range field.Options {
		if raw == opt.Value {
			return raw, true, ""
		}
	}
	return nil, false, "Invalid option selected."
}

type textChecker struct{}

func (textChecker) check(field *models.Field, raw interface{}, present bool) (interface{}, bool, string) {
	value := strings.TrimSpace(toString(raw))
	length := float64(utf8.RuneCountInString(value))
	if v := field.Validation; v != nil {
		// a zero length bound means "no constraint"
		if v.Min != nil && *v.Min > 0 && length < *v.Min {
			return nil, false, fmt.Sprintf("Minimum length is %s.", formatBound(*v.Min))
		}
		if v.Max != nil && *v.Max > 0 && length > *v.Max {
			return nil, false, fmt.Sprintf("Maximum length is %s.", formatBound(*v.Max))
		}
		if v.Regex != "" {
			if re, err := regexp.Compile(v.Regex); err == nil && !re.MatchString(value) {
				return nil, false, "Invalid format."
			}
		}
	}
	return value, true, ""
}

func toNumber(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

func toString(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// formatBound renders a bound the way it reads in a message: whole numbers
// without a decimal point.
func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
