package validation

import (
	"errors"
	"time"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/pkg/problem"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// IANA zone names, e.g. Europe/Prague
	validate.RegisterValidation("timezone", func(fl validator.FieldLevel) bool {
		_, err := time.LoadLocation(fl.Field().String())
		return err == nil
	})

	// Wall clock "HH:MM" used by quiet hours
	validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseClock(fl.Field().String())
		return err == nil
	})
}

// Validate validates a struct and returns field errors, or nil when it is valid.
func Validate(s interface{}) []problem.FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []problem.FieldError{{Field: "body", Message: err.Error()}}
	}

	fieldErrors := make([]problem.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fieldErrors = append(fieldErrors, problem.FieldError{
			Field:   fieldPath(fe),
			Message: getValidationMessage(fe),
		})
	}
	return fieldErrors
}

// fieldPath renders the namespace below the top-level struct in snake case,
// so nested fields read like "quiet_hours.start" or "events[2].event_type".
func fieldPath(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	for i := 0; i < len(ns); i++ {
		if ns[i] == '.' {
			return toSnakeCase(ns[i+1:])
		}
	}
	return toSnakeCase(fe.Field())
}

func getValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + err.Param()
	case "max":
		return "must be at most " + err.Param()
	case "oneof":
		return "must be one of: " + err.Param()
	case "gtfield":
		return "must be greater than " + toSnakeCase(err.Param())
	case "timezone":
		return "must be a valid IANA timezone"
	case "hhmm":
		return "must be a time of day formatted as HH:MM"
	default:
		return "is invalid"
	}
}

func toSnakeCase(s string) string {
	var result []byte
	for i, c := range s {
		if c >= 'A' && c <= 'Z' {
			if i > 0 && s[i-1] != '.' && s[i-1] != '[' {
				result = append(result, '_')
			}
			result = append(result, byte(c+'a'-'A'))
		} else {
			result = append(result, byte(c))
		}
	}
	return string(result)
}
