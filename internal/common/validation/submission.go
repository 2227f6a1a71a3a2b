// internal/common/validation/submission.go
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"application-intake-bot/pkg/registry"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Label   string `json:"label"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Problems renders the errors as "Label: message", one per entry.
func (r *ValidationResult) Problems() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, fmt.Sprintf("%s: %s", e.Label, e.Message))
	}
	return out
}

// ValidateSubmission checks submitted form values against their field
// definitions and returns the trimmed value for every field in form order.
// Values for ids outside the form are dropped.
func ValidateSubmission(form []registry.FormField, values map[string]string) (map[string]string, *ValidationResult) {
	cleaned := make(map[string]string, len(form))
	errors := []ValidationError{}

	for _, field := range form {
		raw, present := values[field.ID]
		value := strings.TrimSpace(raw)
		cleaned[field.ID] = value

		if value == "" {
			if field.Required {
				code := "REQUIRED_FIELD_EMPTY"
				if !present {
					code = "REQUIRED_FIELD_MISSING"
				}
				errors = append(errors, ValidationError{
					Field:   field.ID,
					Label:   field.Label,
					Message: "a value is required",
					Code:    code,
				})
			}
			continue
		}

		length := utf8.RuneCountInString(value)
		if field.MinLength > 0 && length < field.MinLength {
			errors = append(errors, ValidationError{
				Field:   field.ID,
				Label:   field.Label,
				Message: fmt.Sprintf("value must be at least %d characters", field.MinLength),
				Code:    "MIN_LENGTH_VIOLATION",
			})
		}
		if field.MaxLength > 0 && length > field.MaxLength {
			errors = append(errors, ValidationError{
				Field:   field.ID,
				Label:   field.Label,
				Message: fmt.Sprintf("value must be at most %d characters", field.MaxLength),
				Code:    "MAX_LENGTH_VIOLATION",
			})
		}
	}

	return cleaned, &ValidationResult{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}
