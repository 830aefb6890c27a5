package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/clientscore/backend/internal/apperrors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidateStruct checks s against its validate tags and returns one
// FieldError per violated field, in declaration order.
func ValidateStruct(s interface{}) []apperrors.FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []apperrors.FieldError{{Field: "body", Message: err.Error()}}
	}

	fields := make([]apperrors.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, apperrors.FieldError{Field: fe.Field(), Message: msgForTag(fe)})
	}
	return fields
}

// MergeFields appends the entries of later that name a field not already in
// first. Earlier sources win.
func MergeFields(first, later []apperrors.FieldError) []apperrors.FieldError {
	seen := make(map[string]bool, len(first))
	merged := append([]apperrors.FieldError(nil), first...)
	for _, f := range first {
		seen[f.Field] = true
	}
	for _, f := range later {
		if !seen[f.Field] {
			seen[f.Field] = true
			merged = append(merged, f)
		}
	}
	return merged
}

// CheckLength appends a FieldError when value's rune count falls outside
// [min, max].
func CheckLength(fields []apperrors.FieldError, field, value string, min, max int) []apperrors.FieldError {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		return append(fields, apperrors.FieldError{
			Field:   field,
			Message: fmt.Sprintf("must be between %d and %d characters", min, max),
		})
	}
	return fields
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}

func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}
