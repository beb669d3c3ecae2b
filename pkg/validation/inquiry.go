package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// FieldState is the presentational state of a form field after validation
type FieldState string

const (
	FieldError   FieldState = "error"
	FieldSuccess FieldState = "success"
)

// FormFields lists the validated contact form fields in display order.
// The optional phone field is never marked.
var FormFields = []string{"name", "email", "subject", "message"}

// inquiryForm carries the raw field values; the form tag names the field key.
type inquiryForm struct {
	Name    string `form:"name" validate:"trimmed_min=2"`
	Email   string `form:"email" validate:"simple_email"`
	Subject string `form:"subject" validate:"required"`
	Message string `form:"message" validate:"trimmed_min=10"`
}

// Result is the outcome of validating a contact form
type Result struct {
	// Fields marks every validated field as error or success
	Fields map[string]FieldState
	// Messages holds a message for every field marked error
	Messages map[string]string
}

// Valid reports whether no field is marked error
func (r Result) Valid() bool {
	return len(r.Invalid()) == 0
}

// Invalid returns the fields marked error, in display order
func (r Result) Invalid() []string {
	return lo.Filter(FormFields, func(field string, _ int) bool {
		return r.Fields[field] == FieldError
	})
}

// ValidationError reports a contact form that failed validation
type ValidationError struct {
	Result Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid fields: %s", strings.Join(e.Result.Invalid(), ", "))
}

// FormValidator checks contact form fields before submission
type FormValidator struct {
	validate *validator.Validate
}

// NewFormValidator creates a validator with the contact form rules registered
func NewFormValidator() *FormValidator {
	v := validator.New()
	RegisterValidators(v)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	return &FormValidator{validate: v}
}

// ValidateInquiry validates raw form fields. It never fails; invalid input is
// reported through the returned Result.
func (f *FormValidator) ValidateInquiry(fields map[string]string) Result {
	form := inquiryForm{
		Name:    fields["name"],
		Email:   fields["email"],
		Subject: fields["subject"],
		Message: fields["message"],
	}

	result := Result{
		Fields:   make(map[string]FieldState, len(FormFields)),
		Messages: map[string]string{},
	}
	for _, field := range FormFields {
		result.Fields[field] = FieldSuccess
	}

	err := f.validate.Struct(form)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			result.Fields[e.Field()] = FieldError
		}
		result.Messages = FormatValidationErrors(validationErrors)
	}

	return result
}

// Err returns a *ValidationError when the result is invalid, nil otherwise
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &ValidationError{Result: r}
}
