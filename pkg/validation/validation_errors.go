package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps form keys to the labels shown next to an invalid field
var FieldLabels = map[string]string{
	"name":    "Name",
	"email":   "Email",
	"phone":   "Phone",
	"subject": "Subject",
	"message": "Message",
}

// FormatValidationErrors converts validator.ValidationErrors to a form key -> message map
func FormatValidationErrors(err error) map[string]string {
	messages := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return messages
	}

	for _, e := range validationErrors {
		messages[e.Field()] = formatSingleError(e)
	}

	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: Please fill in this field", label)

	case "trimmed_min":
		return fmt.Sprintf("%s: Must be at least %s characters", label, e.Param())

	case "simple_email", "email":
		return fmt.Sprintf("%s: Please enter a valid email address", label)

	default:
		return fmt.Sprintf("%s: Invalid value (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(field string) string {
	if label, ok := FieldLabels[field]; ok {
		return label
	}
	return field
}
