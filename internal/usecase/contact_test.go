package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"seaview-backend/config"
	"seaview-backend/internal/domain"
	"seaview-backend/internal/usecase"
	"seaview-backend/pkg/apperror"
	"seaview-backend/pkg/email"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock mail transport
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg email.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		FacilityName:         "Seaview Aged Care",
		FacilityPhone:        "035736027",
		ContactEmailTo:       "admin@seaviewhome.co.nz",
		MailFromAddress:      "noreply@seaviewhome.co.nz",
		MailFromName:         "Seaview Website",
		ConfirmationFromName: "Seaview Aged Care",
	}
}

func validInquiry() *domain.Inquiry {
	return &domain.Inquiry{
		Name:    "  Mere Tane ",
		Email:   "mere@example.co.nz",
		Subject: "admission",
		Message: "I would like to arrange a visit next week.",
	}
}

func toOperator(msg email.Message) bool {
	return len(msg.To) == 1 && msg.To[0] == "admin@seaviewhome.co.nz"
}

func toSender(msg email.Message) bool {
	return len(msg.To) == 1 && msg.To[0] == "mere@example.co.nz"
}

func TestRelayInquiry_RequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Inquiry)
		want   string
	}{
		{"empty inquiry reports name first", func(i *domain.Inquiry) { *i = domain.Inquiry{} }, "Field 'name' is required"},
		{"missing email", func(i *domain.Inquiry) { i.Email = "" }, "Field 'email' is required"},
		{"blank subject", func(i *domain.Inquiry) { i.Subject = "   " }, "Field 'subject' is required"},
		{"missing message", func(i *domain.Inquiry) { i.Message = "" }, "Field 'message' is required"},
		{"malformed email", func(i *domain.Inquiry) { i.Email = "not-an-email" }, "Invalid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := new(MockSender)
			uc := usecase.NewContactUsecase(sender, validator.New(), testConfig(), nil)

			inq := validInquiry()
			tt.mutate(inq)
			_, err := uc.RelayInquiry(context.Background(), inq)

			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, http.StatusBadRequest, appErr.Code)
			assert.Equal(t, tt.want, appErr.Message)
			sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestRelayInquiry_SendsNotificationAndConfirmation(t *testing.T) {
	sender := new(MockSender)
	uc := usecase.NewContactUsecase(sender, validator.New(), testConfig(), nil)

	sender.On("Send", mock.Anything, mock.MatchedBy(toOperator)).Return(nil).Once()
	sender.On("Send", mock.Anything, mock.MatchedBy(toSender)).Return(nil).Once()

	ctx := context.WithValue(context.Background(), domain.KeyClientIP, "203.0.113.9")
	msg, err := uc.RelayInquiry(ctx, validInquiry())

	require.NoError(t, err)
	assert.Equal(t, "Your message has been sent successfully. We will get back to you soon!", msg)
	sender.AssertExpectations(t)

	notification := sender.Calls[0].Arguments.Get(1).(email.Message)
	assert.Equal(t, "Seaview Aged Care Contact Form: Admission", notification.Subject)
	assert.Equal(t, "mere@example.co.nz", notification.ReplyTo)
	assert.Equal(t, "noreply@seaviewhome.co.nz", notification.From.Address)
	assert.Equal(t, "Seaview Website", notification.From.Name)
	assert.Contains(t, notification.TextBody, "Name: Mere Tane\n")
	assert.Contains(t, notification.TextBody, "Phone: Not provided\n")
	assert.Contains(t, notification.TextBody, "IP Address: 203.0.113.9")

	confirmation := sender.Calls[1].Arguments.Get(1).(email.Message)
	assert.Equal(t, "Thank you for contacting Seaview Aged Care", confirmation.Subject)
	assert.Equal(t, "admin@seaviewhome.co.nz", confirmation.From.Address)
	assert.Contains(t, confirmation.TextBody, "Dear Mere Tane,")
}

func TestRelayInquiry_NotificationFailure(t *testing.T) {
	var logs bytes.Buffer
	sender := new(MockSender)
	uc := usecase.NewContactUsecase(sender, validator.New(), testConfig(), slog.New(slog.NewTextHandler(&logs, nil)))

	transportErr := errors.New("dial tcp 127.0.0.1:25: connection refused")
	sender.On("Send", mock.Anything, mock.MatchedBy(toOperator)).Return(transportErr).Once()

	_, err := uc.RelayInquiry(context.Background(), validInquiry())

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, "Failed to send email. Please try again or call us directly at 035736027.", appErr.Message)
	assert.ErrorIs(t, err, transportErr)
	sender.AssertNumberOfCalls(t, "Send", 1)
	assert.Empty(t, logs.String(), "the returned error is logged by the HTTP layer")
}

func TestRelayInquiry_ConfirmationFailureIsNotSurfaced(t *testing.T) {
	sender := new(MockSender)
	uc := usecase.NewContactUsecase(sender, validator.New(), testConfig(), nil)

	sender.On("Send", mock.Anything, mock.MatchedBy(toOperator)).Return(nil).Once()
	sender.On("Send", mock.Anything, mock.MatchedBy(toSender)).Return(errors.New("mailbox unavailable")).Once()

	msg, err := uc.RelayInquiry(context.Background(), validInquiry())

	require.NoError(t, err)
	assert.NotEmpty(t, msg)
	sender.AssertExpectations(t)
}
