package core

import (
	"bytes"
	"net/mail"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

type (
	Attachment struct {
		Content     *bytes.Buffer
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		BodyStr     string // simple text/plain, non-templated content
		Attachments []Attachment

		// templated contents
		TemplateStr  string // text/template source
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// Render resolves the final TextContent: either the rendered TemplateStr or
// the plain BodyStr. It is a no-op when TextContent is already set.
func (m *EmailMessage) Render() error {
	if m.TextContent != "" {
		return nil
	}
	if m.TemplateStr == "" {
		m.TextContent = m.BodyStr
		return nil
	}

	tmpl, err := texttmpl.New("email").Parse(m.TemplateStr)
	if err != nil {
		return errors.Wrap(err, "parsing email template")
	}
	var buf bytes.Buffer
	if err = tmpl.Execute(&buf, m.TemplateData); err != nil {
		return errors.Wrap(err, "rendering email template")
	}
	m.TextContent = buf.String()
	return nil
}

func (m *EmailMessage) HasRecipients() bool {
	return len(m.To)+len(m.Cc)+len(m.Bcc) > 0
}

func (m *EmailMessage) HasContent() bool {
	return m.TextContent != "" || m.HTMLContent != "" || m.BodyStr != ""
}

func (m *EmailMessage) HasAttachments() bool {
	return len(m.Attachments) > 0
}
