package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"seaview-backend/config"
	"seaview-backend/internal/domain"
	"seaview-backend/pkg/apperror"
	"seaview-backend/pkg/email"

	"github.com/go-playground/validator/v10"
)

const relaySuccessMessage = "Your message has been sent successfully. We will get back to you soon!"

type contactUsecase struct {
	sender   email.Sender
	validate *validator.Validate
	log      *slog.Logger
	now      func() time.Time

	facilityName  string
	facilityPhone string
	operator      *mail.Address
	websiteFrom   *mail.Address
	replyFrom     *mail.Address
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(sender email.Sender, validate *validator.Validate, cfg *config.Config, log *slog.Logger) domain.ContactUsecase {
	if log == nil {
		log = slog.Default()
	}
	return &contactUsecase{
		sender:        sender,
		validate:      validate,
		log:           log,
		now:           time.Now,
		facilityName:  cfg.FacilityName,
		facilityPhone: cfg.FacilityPhone,
		operator:      &mail.Address{Address: cfg.ContactEmailTo},
		websiteFrom:   &mail.Address{Name: cfg.MailFromName, Address: cfg.MailFromAddress},
		replyFrom:     &mail.Address{Name: cfg.ConfirmationFromName, Address: cfg.ContactEmailTo},
	}
}

// RelayInquiry validates the inquiry, notifies the operator and sends the
// sender a best-effort confirmation.
func (uc *contactUsecase) RelayInquiry(ctx context.Context, req *domain.Inquiry) (string, error) {
	inq := req.Trimmed()

	// Checked in this order so the first missing field is the one reported
	required := []struct {
		field string
		value string
	}{
		{"name", inq.Name},
		{"email", inq.Email},
		{"subject", inq.Subject},
		{"message", inq.Message},
	}
	for _, r := range required {
		if r.value == "" {
			return "", apperror.BadRequest(fmt.Sprintf("Field '%s' is required", r.field))
		}
	}

	if err := uc.validate.Var(inq.Email, "email"); err != nil || strings.ContainsAny(inq.Email, "\r\n") {
		return "", apperror.BadRequest("Invalid email address")
	}

	data := email.ContactEmailData{
		FacilityName:  uc.facilityName,
		FacilityPhone: uc.facilityPhone,
		OperatorEmail: uc.operator.Address,
		SenderName:    inq.Name,
		SenderEmail:   inq.Email,
		Phone:         inq.PhoneOrDefault(),
		Subject:       ucfirst(inq.Subject),
		Message:       inq.Message,
		SentAt:        uc.now(),
		IPAddress:     clientIP(ctx),
	}

	if err := uc.sendNotification(ctx, data); err != nil {
		return "", apperror.New(
			http.StatusInternalServerError,
			fmt.Sprintf("Failed to send email. Please try again or call us directly at %s.", uc.facilityPhone),
			err,
		)
	}

	// The enquirer's confirmation is best effort only
	if err := uc.sendConfirmation(ctx, data); err != nil {
		uc.log.WarnContext(ctx, "Failed to send contact confirmation", "error", err, "request_id", requestID(ctx))
	}

	uc.log.InfoContext(ctx, "Contact inquiry relayed", "subject", data.Subject, "request_id", requestID(ctx))
	return relaySuccessMessage, nil
}

func (uc *contactUsecase) sendNotification(ctx context.Context, data email.ContactEmailData) error {
	body, err := email.RenderNotification(data)
	if err != nil {
		return err
	}
	return uc.sender.Send(ctx, email.Message{
		From:     uc.websiteFrom,
		To:       []string{uc.operator.Address},
		ReplyTo:  data.SenderEmail,
		Subject:  fmt.Sprintf("%s Contact Form: %s", uc.facilityName, data.Subject),
		TextBody: body,
	})
}

func (uc *contactUsecase) sendConfirmation(ctx context.Context, data email.ContactEmailData) error {
	body, err := email.RenderConfirmation(data)
	if err != nil {
		return err
	}
	return uc.sender.Send(ctx, email.Message{
		From:     uc.replyFrom,
		To:       []string{data.SenderEmail},
		Subject:  fmt.Sprintf("Thank you for contacting %s", uc.facilityName),
		TextBody: body,
	})
}

// ucfirst upper-cases the first character, e.g. "admission" -> "Admission"
func ucfirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func clientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(domain.KeyClientIP).(string); ok && ip != "" {
		return ip
	}
	return "unknown"
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(domain.KeyRequestID).(string)
	return id
}
