package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// Global validator instance
var validate *Validator

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	_ = v.RegisterValidation("category", validateCategory)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// validateCategory accepts the known item categories
func validateCategory(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "resource", "crafted", "tool", "equipment":
		return true
	}
	return false
}

// FormatValidationError formats validation errors into a user-friendly map.
// Prevents leaking internal struct names.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = fmt.Sprintf("%s is required", field)
		case "gt":
			errs[field] = fmt.Sprintf("%s must be greater than %s", field, e.Param())
		case "gte":
			errs[field] = fmt.Sprintf("%s must be at least %s", field, e.Param())
		case "min":
			errs[field] = fmt.Sprintf("%s must have at least %s entries", field, e.Param())
		case "category":
			errs[field] = fmt.Sprintf("%s must be one of resource, crafted, tool, equipment", field)
		case "dive":
			errs[field] = fmt.Sprintf("%s contains an invalid entry", field)
		default:
			errs[field] = fmt.Sprintf("%s is invalid", field)
		}
	}

	return errs
}
