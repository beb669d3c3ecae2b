package domain

import (
	"context"
	"strings"
)

// Inquiry is a contact form submission. It is never persisted.
type Inquiry struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (i Inquiry) Trimmed() Inquiry {
	return Inquiry{
		Name:    strings.TrimSpace(i.Name),
		Email:   strings.TrimSpace(i.Email),
		Phone:   strings.TrimSpace(i.Phone),
		Subject: strings.TrimSpace(i.Subject),
		Message: strings.TrimSpace(i.Message),
	}
}

// PhoneOrDefault returns the phone number, or "Not provided" when it is empty.
func (i Inquiry) PhoneOrDefault() string {
	if strings.TrimSpace(i.Phone) == "" {
		return "Not provided"
	}
	return i.Phone
}

// Fields returns the inquiry as the raw form field mapping.
func (i Inquiry) Fields() map[string]string {
	return map[string]string{
		"name":    i.Name,
		"email":   i.Email,
		"phone":   i.Phone,
		"subject": i.Subject,
		"message": i.Message,
	}
}

// InquiryFromFields builds an Inquiry from raw form fields. Unknown keys are ignored.
func InquiryFromFields(fields map[string]string) Inquiry {
	return Inquiry{
		Name:    fields["name"],
		Email:   fields["email"],
		Phone:   fields["phone"],
		Subject: fields["subject"],
		Message: fields["message"],
	}
}

// DeliveryReceipt describes which delivery tier accepted an inquiry.
type DeliveryReceipt struct {
	Tier    string `json:"tier"`
	Message string `json:"message"`
}

// ContactUsecase defines the interface for the mail relay
type ContactUsecase interface {
	// RelayInquiry validates the inquiry and emails the operator and the sender.
	// It returns the user-facing success message.
	RelayInquiry(ctx context.Context, inq *Inquiry) (string, error)
}
