package security

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError carries per-field messages for a rejected form
type ValidationError struct {
	Fields map[string]string
}

// Error joins the field messages in field order
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, ", ")
}

// ValidateInput checks a form struct against its validate tags
func ValidateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			fields[field] = e.Field() + " is required"
		case "email":
			fields[field] = "Invalid email format"
		case "min":
			fields[field] = e.Field() + " must be at least " + e.Param()
		case "max":
			fields[field] = e.Field() + " must be at most " + e.Param()
		case "gt":
			fields[field] = e.Field() + " must be greater than " + e.Param()
		case "len":
			fields[field] = e.Field() + " must be exactly " + e.Param() + " characters"
		default:
			fields[field] = e.Field() + " failed on " + e.Tag()
		}
	}
	return &ValidationError{Fields: fields}
}
