package mail

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"gopkg.in/gomail.v2"
)

type captureDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *captureDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func newTestSender(t *testing.T, d *captureDialer) *SMTPSender {
	t.Helper()
	s, err := NewSMTPSender(SMTPConfig{Host: "localhost", Port: 2525, From: "no-reply@shop.test"}, WithDialer(d))
	if err != nil {
		t.Fatalf("NewSMTPSender failed: %v", err)
	}
	return s
}

func TestSendRendersTemplate(t *testing.T) {
	d := &captureDialer{}
	s := newTestSender(t, d)

	err := s.Send(context.Background(), "alice@x.com", "Verify your email", "user-activation-mail",
		map[string]any{"name": "Alice", "otp": "4821"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(d.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(d.sent))
	}

	m := d.sent[0]
	if got := m.GetHeader("To"); len(got) != 1 || got[0] != "alice@x.com" {
		t.Fatalf("unexpected To header %v", got)
	}
	if got := m.GetHeader("Subject"); len(got) != 1 || got[0] != "Verify your email" {
		t.Fatalf("unexpected Subject header %v", got)
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if !strings.Contains(buf.String(), "4821") || !strings.Contains(buf.String(), "Hi Alice") {
		t.Fatalf("rendered body missing data:\n%s", buf.String())
	}
}

func TestSendEscapesName(t *testing.T) {
	d := &captureDialer{}
	s := newTestSender(t, d)

	err := s.Send(context.Background(), "a@x.com", "s", "forgot-password-user-mail",
		map[string]any{"name": "<script>", "otp": "1234"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	var buf bytes.Buffer
	if _, err := d.sent[0].WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if strings.Contains(buf.String(), "<script>") {
		t.Fatal("expected name to be escaped")
	}
}

func TestSendErrors(t *testing.T) {
	d := &captureDialer{}
	s := newTestSender(t, d)
	ctx := context.Background()

	err := s.Send(ctx, "a@x.com", "s", "nope", nil)
	if !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}

	err = s.Send(ctx, "a@x.com", "s", "user-activation-mail", map[string]any{"name": "A"})
	if err == nil {
		t.Fatal("expected render error for missing otp")
	}

	d.err = errors.New("relay down")
	err = s.Send(ctx, "a@x.com", "s", "user-activation-mail", map[string]any{"name": "A", "otp": "1234"})
	if !errors.Is(err, d.err) {
		t.Fatalf("expected relay error, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := s.Send(cancelled, "a@x.com", "s", "user-activation-mail", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRegisterOverridesTemplate(t *testing.T) {
	d := &captureDialer{}
	s := newTestSender(t, d)

	if err := s.Register("user-activation-mail", "code: {{.otp}}"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := s.Register("broken", "{{.otp"); err == nil {
		t.Fatal("expected parse error")
	}

	if err := s.Send(context.Background(), "a@x.com", "s", "user-activation-mail", map[string]any{"otp": "9999"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	var buf bytes.Buffer
	if _, err := d.sent[0].WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if !strings.Contains(buf.String(), "code: 9999") {
		t.Fatalf("expected override body, got:\n%s", buf.String())
	}
}

func TestNewSMTPSenderRequiresFrom(t *testing.T) {
	if _, err := NewSMTPSender(SMTPConfig{Host: "localhost"}); err == nil {
		t.Fatal("expected error for missing From")
	}
}
