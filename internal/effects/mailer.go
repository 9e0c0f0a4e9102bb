// Package effects executes the side effects ordered by lifecycle
// transitions: notification rows, realtime pushes, and templated email.
package effects

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"docmanager/internal/models"
	"docmanager/internal/observability"

	"github.com/wneessen/go-mail"
)

// Mailer sends a templated email. Implementations must honor the context
// deadline so a slow SMTP peer cannot stall the dispatcher.
type Mailer interface {
	Send(ctx context.Context, templateID, recipient string, data map[string]string) error
}

// emailTemplate pairs a subject line with an HTML body template.
type emailTemplate struct {
	subject string
	body    *template.Template
}

var emailTemplates = map[string]emailTemplate{
	"request_update": {
		subject: "Your request has been updated",
		body: template.Must(template.New("request_update").Parse(
			`<p>Your request has been <strong>{{.request_status}}</strong>.</p>` +
				`<p>Remarks: {{.remarks}}</p>`,
		)),
	},
}

// SMTPMailer sends mail through an SMTP relay using go-mail.
type SMTPMailer struct {
	client  *mail.Client
	from    string
	timeout time.Duration
}

// SMTPConfig holds the SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// NewSMTPMailer creates a mailer connected to the given relay.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(cfg.Timeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From, timeout: cfg.Timeout}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, templateID, recipient string, data map[string]string) error {
	tmpl, ok := emailTemplates[templateID]
	if !ok {
		return models.NewTransportError(fmt.Errorf("unknown email template %q", templateID))
	}

	var body bytes.Buffer
	if err := tmpl.body.Execute(&body, data); err != nil {
		return models.NewTransportError(err)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return models.NewTransportError(err)
	}
	if err := msg.To(recipient); err != nil {
		return models.NewTransportError(err)
	}
	msg.Subject(tmpl.subject)
	msg.SetBodyString(mail.TypeTextHTML, body.String())

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()
	err := m.client.DialAndSendWithContext(ctx, msg)
	observability.EmailSendLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return models.NewTransportError(err)
	}
	return nil
}

// NoopMailer discards mail. Used in development and tests where no SMTP
// relay is configured.
type NoopMailer struct{}

func (NoopMailer) Send(_ context.Context, templateID, recipient string, _ map[string]string) error {
	observability.GlobalLogger.Info("email suppressed, no relay configured",
		"template", templateID, "recipient", recipient)
	return nil
}
