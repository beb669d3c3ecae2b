package email

import (
	"bytes"
	"fmt"
	"text/template"
	"time"
)

// ContactEmailData holds the data for contact relay emails
type ContactEmailData struct {
	FacilityName  string
	FacilityPhone string
	OperatorEmail string
	SenderName    string
	SenderEmail   string
	Phone         string
	Subject       string
	Message       string
	SentAt        time.Time
	IPAddress     string
}

// notificationTemplate is the operator notification body
const notificationTemplate = `New contact form submission from {{.FacilityName}} website:

Name: {{.SenderName}}
Email: {{.SenderEmail}}
Phone: {{.Phone}}
Subject: {{.Subject}}

Message:
{{.Message}}

---
This message was sent from the {{.FacilityName}} website contact form.
Sent on: {{.SentAt.Format "2006-01-02 15:04:05"}}
IP Address: {{.IPAddress}}
`

// confirmationTemplate is the acknowledgement sent back to the enquirer
const confirmationTemplate = `Dear {{.SenderName}},

Thank you for contacting {{.FacilityName}}. We have received your message and will get back to you as soon as possible.

Your message:
Subject: {{.Subject}}
Message: {{.Message}}

For urgent matters, please call us directly at {{.FacilityPhone}}.

Best regards,
The {{.FacilityName}} Team

---
{{.FacilityName}} Home
Phone: {{.FacilityPhone}}
Email: {{.OperatorEmail}}
`

var (
	notificationTmpl = template.Must(template.New("notification").Parse(notificationTemplate))
	confirmationTmpl = template.Must(template.New("confirmation").Parse(confirmationTemplate))
)

// RenderNotification renders the operator notification body
func RenderNotification(data ContactEmailData) (string, error) {
	return render(notificationTmpl, data)
}

// RenderConfirmation renders the sender confirmation body
func RenderConfirmation(data ContactEmailData) (string, error) {
	return render(confirmationTmpl, data)
}

func render(tmpl *template.Template, data ContactEmailData) (string, error) {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute email template %q: %w", tmpl.Name(), err)
	}
	return body.String(), nil
}
