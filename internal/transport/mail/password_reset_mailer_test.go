package mail

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gopkg.in/gomail.v2"
)

func TestRenderPasswordResetContainsLinkTwice(t *testing.T) {
	url := "https://hireradar.io/reset-password?token=abc_123-XYZ"
	html, text, err := renderPasswordReset(resetData{AppName: "Hire Radar", Name: "Ada", ResetURL: url, ValidFor: "1 hour"})
	if err != nil {
		t.Fatalf("render returned error: %v", err)
	}
	// button href, plus href and text of the fallback link
	if got := strings.Count(html, url); got != 3 {
		t.Fatalf("expected link in button and fallback, found %d occurrences", got)
	}
	if !strings.Contains(html, "Hi Ada,") || !strings.Contains(html, "expire in 1 hour") {
		t.Fatalf("unexpected html body: %s", html)
	}
	if !strings.Contains(text, url) || !strings.Contains(text, "expire in 1 hour") {
		t.Fatalf("unexpected text body: %s", text)
	}
}

func TestRenderPasswordResetEscapesName(t *testing.T) {
	html, _, err := renderPasswordReset(resetData{AppName: "Hire Radar", Name: "<script>x</script>", ResetURL: "https://x/y"})
	if err != nil {
		t.Fatalf("render returned error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("expected display name to be escaped")
	}
}

func TestDescribeTTL(t *testing.T) {
	cases := map[time.Duration]string{
		time.Hour:        "1 hour",
		2 * time.Hour:    "2 hours",
		30 * time.Minute: "30 minutes",
		90 * time.Minute: "90 minutes",
		0:                "1 hour",
	}
	for ttl, want := range cases {
		if got := describeTTL(ttl); got != want {
			t.Errorf("describeTTL(%s) = %q, want %q", ttl, got, want)
		}
	}
}

func TestSendPasswordResetQuotesConfiguredLifetime(t *testing.T) {
	var sent []*gomail.Message
	m := &PasswordResetMailer{appName: "Hire Radar", from: "no-reply@hireradar.io", ttl: 30 * time.Minute, send: func(msgs ...*gomail.Message) error {
		sent = append(sent, msgs...)
		return nil
	}}

	if err := m.SendPasswordReset(context.Background(), "ada@example.com", "Ada", "https://x/reset-password?token=t"); err != nil {
		t.Fatalf("SendPasswordReset returned error: %v", err)
	}
	var body bytes.Buffer
	if _, err := sent[0].WriteTo(&body); err != nil {
		t.Fatalf("write message: %v", err)
	}
	if !strings.Contains(body.String(), "expire in 30 minutes") || strings.Contains(body.String(), "1 hour") {
		t.Fatalf("expected the configured lifetime in the body")
	}
}

func TestSendPasswordResetBuildsMessage(t *testing.T) {
	var sent []*gomail.Message
	m := &PasswordResetMailer{appName: "Hire Radar", from: "no-reply@hireradar.io", send: func(msgs ...*gomail.Message) error {
		sent = append(sent, msgs...)
		return nil
	}}

	if err := m.SendPasswordReset(context.Background(), "ada@example.com", "Ada", "https://x/reset-password?token=t"); err != nil {
		t.Fatalf("SendPasswordReset returned error: %v", err)
	}
	if len(sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sent))
	}
	msg := sent[0]
	if got := msg.GetHeader("Subject"); len(got) != 1 || got[0] != "Reset Your Hire Radar Password" {
		t.Fatalf("unexpected subject %v", got)
	}
	if got := msg.GetHeader("To"); len(got) != 1 || got[0] != "ada@example.com" {
		t.Fatalf("unexpected recipient %v", got)
	}
}

func TestSendPasswordResetWrapsTransportError(t *testing.T) {
	smtpDown := errors.New("dial tcp: refused")
	m := &PasswordResetMailer{appName: "Hire Radar", from: "a@b.c", send: func(...*gomail.Message) error { return smtpDown }}

	err := m.SendPasswordReset(context.Background(), "ada@example.com", "Ada", "https://x")
	if !errors.Is(err, smtpDown) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}

func TestSendPasswordResetHonoursCancelledContext(t *testing.T) {
	called := false
	m := &PasswordResetMailer{appName: "Hire Radar", from: "a@b.c", send: func(...*gomail.Message) error { called = true; return nil }}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := m.SendPasswordReset(ctx, "ada@example.com", "Ada", "https://x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if called {
		t.Fatalf("expected no delivery attempt")
	}
}
