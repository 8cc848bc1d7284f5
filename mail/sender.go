// Package mail delivers shopAuth messages over SMTP using gomail.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

// ErrUnknownTemplate is returned when Send is called with an unregistered
// template ID.
var ErrUnknownTemplate = errors.New("mail: unknown template")

// SMTPConfig holds the relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender renders a registered template and sends it as HTML mail.
// It implements shopAuth.MessageSender.
type SMTPSender struct {
	from      string
	dialer    Dialer
	templates map[string]*template.Template
}

// Option customizes an SMTPSender.
type Option func(*SMTPSender)

// WithDialer replaces the SMTP dialer.
func WithDialer(d Dialer) Option {
	return func(s *SMTPSender) { s.dialer = d }
}

// NewSMTPSender returns a sender with the default templates registered.
func NewSMTPSender(cfg SMTPConfig, opts ...Option) (*SMTPSender, error) {
	if cfg.From == "" {
		return nil, errors.New("mail: From address is required")
	}
	s := &SMTPSender{
		from:      cfg.From,
		dialer:    gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		templates: make(map[string]*template.Template, len(defaultTemplates)),
	}
	for id, body := range defaultTemplates {
		if err := s.Register(id, body); err != nil {
			return nil, err
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register parses body and stores it under id, replacing any existing
// template. Data keys are available as {{.name}}, {{.otp}}.
func (s *SMTPSender) Register(id, body string) error {
	t, err := template.New(id).Option("missingkey=error").Parse(body)
	if err != nil {
		return fmt.Errorf("mail: parse template %q: %w", id, err)
	}
	s.templates[id] = t
	return nil
}

// Send renders templateID with data and delivers it to a single recipient.
func (s *SMTPSender) Send(ctx context.Context, to, subject, templateID string, data map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t, ok := s.templates[templateID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTemplate, templateID)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("mail: render %q: %w", templateID, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	return nil
}
