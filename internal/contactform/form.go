// Package contactform drives a contact form submission from raw field values
// through validation and delivery, producing what the page should show.
package contactform

import (
	"context"
	"errors"

	"seaview-backend/internal/dispatch"
	"seaview-backend/internal/domain"
	"seaview-backend/pkg/validation"
)

const (
	SuccessMessage = "Thank you for your message! We will get back to you soon."
	FailureMessage = "Sorry, there was an error sending your message. Please try again or call us directly."
	BusyMessage    = "Your message is already being sent. Please wait."
)

type Status string

const (
	StatusSent    Status = "sent"
	StatusInvalid Status = "invalid"
	StatusFailed  Status = "failed"
	StatusBusy    Status = "busy"
)

// Outcome is the state the form should be rendered in after a submission.
type Outcome struct {
	Status Status
	// Message is the banner shown above the form, empty for invalid input
	Message string
	// Fields holds per-field marks. Marks are cleared after a successful send.
	Fields map[string]validation.FieldState
	// FieldMessages explains each field marked error
	FieldMessages map[string]string
	// Instruction tells the user how to finish sending by hand
	Instruction string
	MailtoURI   string
	Receipt     *domain.DeliveryReceipt
	Err         error
}

// Dispatcher delivers a validated inquiry.
type Dispatcher interface {
	Dispatch(ctx context.Context, inq domain.Inquiry) (domain.DeliveryReceipt, error)
}

type Form struct {
	validator  *validation.FormValidator
	dispatcher Dispatcher
}

func New(validator *validation.FormValidator, dispatcher Dispatcher) *Form {
	if validator == nil {
		validator = validation.NewFormValidator()
	}
	return &Form{validator: validator, dispatcher: dispatcher}
}

// Submit validates fields and, when they are valid, dispatches the inquiry.
// Invalid input is never dispatched.
func (f *Form) Submit(ctx context.Context, fields map[string]string) Outcome {
	result := f.validator.ValidateInquiry(fields)
	if !result.Valid() {
		return Outcome{
			Status:        StatusInvalid,
			Fields:        result.Fields,
			FieldMessages: result.Messages,
			Err:           result.Err(),
		}
	}

	receipt, err := f.dispatcher.Dispatch(ctx, domain.InquiryFromFields(fields).Trimmed())
	if err == nil {
		return Outcome{
			Status:  StatusSent,
			Message: SuccessMessage,
			Fields:  map[string]validation.FieldState{},
			Receipt: &receipt,
		}
	}

	if errors.Is(err, dispatch.ErrSubmissionInFlight) {
		return Outcome{Status: StatusBusy, Message: BusyMessage, Fields: result.Fields, Err: err}
	}

	outcome := Outcome{
		Status:  StatusFailed,
		Message: FailureMessage,
		Fields:  result.Fields,
		Err:     err,
	}
	var fatal *dispatch.FatalDeliveryError
	if errors.As(err, &fatal) {
		outcome.Instruction = fatal.Message
		outcome.MailtoURI = fatal.MailtoURI
	}
	return outcome
}
