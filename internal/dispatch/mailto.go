package dispatch

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"seaview-backend/internal/domain"
)

// ManualSendMessage is shown when the inquiry was handed to the user's mail client.
const ManualSendMessage = "Please send the email using your email client, or try again later."

// Opener hands a URI to the user's environment, e.g. their mail client.
type Opener interface {
	Open(ctx context.Context, uri string) error
}

// SystemOpener opens URIs with the desktop's default handler.
type SystemOpener struct{}

func (SystemOpener) Open(ctx context.Context, uri string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", uri)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", uri)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", uri)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", strings.SplitN(uri, ":", 2)[0], err)
	}
	// The handler process is not ours to wait for
	go func() { _ = cmd.Wait() }()
	return nil
}

// encodeURIComponent percent-encodes s for a URI component; spaces become %20.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// MailtoURI builds the fallback link addressed to recipient.
func MailtoURI(recipient string, inq domain.Inquiry) string {
	subject := "Seaview Aged Care: " + inq.Subject
	body := fmt.Sprintf(`Name: %s
Email: %s
Phone: %s
Subject: %s

Message:
%s

---
Please respond to this inquiry as soon as possible.`,
		inq.Name, inq.Email, inq.PhoneOrDefault(), inq.Subject, inq.Message)

	return fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		recipient, encodeURIComponent(subject), encodeURIComponent(body))
}

// MailtoFallback is the terminal tier. It never confirms delivery.
type MailtoFallback struct {
	recipient string
	opener    Opener
}

func NewMailtoFallback(recipient string, opener Opener) *MailtoFallback {
	return &MailtoFallback{recipient: recipient, opener: opener}
}

// Open builds the mailto link, asks the opener to show it and returns the
// link. An opener failure is returned alongside the link, which is still
// usable if shown to the user.
func (f *MailtoFallback) Open(ctx context.Context, inq domain.Inquiry) (string, error) {
	uri := MailtoURI(f.recipient, inq)
	if f.opener == nil {
		return uri, nil
	}
	return uri, f.opener.Open(ctx, uri)
}
