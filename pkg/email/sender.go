// Package email composes and sends the contact relay's plain-text emails.
package email

import (
	"context"
	"errors"
	"net/mail"
	"strings"
)

var (
	// ErrNoRecipients is returned when a message has no To address.
	ErrNoRecipients = errors.New("email: no recipients provided")
	// ErrNoSender is returned when a message has no From address.
	ErrNoSender = errors.New("email: no sender provided")
)

// Message is a plain-text UTF-8 email.
type Message struct {
	From     *mail.Address
	To       []string
	ReplyTo  string
	Subject  string
	TextBody string
}

// Sender delivers a Message through a mail transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

func (m Message) validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	if m.From == nil || m.From.Address == "" {
		return ErrNoSender
	}
	return nil
}

// headerValue strips line breaks so user input can never start a new header.
func headerValue(s string) string {
	return strings.Join(strings.Fields(strings.NewReplacer("\r", " ", "\n", " ").Replace(s)), " ")
}
