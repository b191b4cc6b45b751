package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"gopkg.in/gomail.v2"
)

var htmlBody = htmltemplate.Must(htmltemplate.New("reset.html").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>Reset your {{.AppName}} password</h2>
  <p>Hi {{.Name}},</p>
  <p>We received a request to reset the password for your {{.AppName}} account. Click the button below to choose a new one.</p>
  <p><a href="{{.ResetURL}}" style="display:inline-block;padding:12px 24px;background:#2563eb;color:#ffffff;text-decoration:none;border-radius:6px;">Reset Password</a></p>
  <p>Or copy and paste this link into your browser:</p>
  <p><a href="{{.ResetURL}}">{{.ResetURL}}</a></p>
  <p>This link will expire in {{.ValidFor}}.</p>
  <p>If you didn't request a password reset, you can safely ignore this email.</p>
  <p>The {{.AppName}} Team</p>
</body>
</html>
`))

var textBody = texttemplate.Must(texttemplate.New("reset.txt").Parse(`Hi {{.Name}},

We received a request to reset the password for your {{.AppName}} account.

Open this link to choose a new password:
{{.ResetURL}}

This link will expire in {{.ValidFor}}.

If you didn't request a password reset, you can safely ignore this email.

The {{.AppName}} Team
`))

type resetData struct {
	AppName  string
	Name     string
	ResetURL string
	ValidFor string
}

type PasswordResetMailer struct {
	appName string
	from    string
	ttl     time.Duration
	send    func(...*gomail.Message) error
}

// NewPasswordResetMailer builds an SMTP mailer. ttl is the reset link lifetime
// quoted in the email and should match the token expiry.
func NewPasswordResetMailer(host string, port int, username, password, from, appName string, ttl time.Duration) *PasswordResetMailer {
	dialer := gomail.NewDialer(strings.TrimSpace(host), port, username, password)
	return &PasswordResetMailer{
		appName: appName,
		from:    strings.TrimSpace(from),
		ttl:     ttl,
		send:    dialer.DialAndSend,
	}
}

// SendPasswordReset delivers the reset link. Each call opens its own SMTP
// session.
func (m *PasswordResetMailer) SendPasswordReset(ctx context.Context, email, name, resetURL string) error {
	if m == nil || m.send == nil {
		return errors.New("mailer not configured")
	}
	if m.from == "" {
		return errors.New("mailer missing sender address")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := m.buildMessage(email, name, resetURL)
	if err != nil {
		return err
	}
	if err := m.send(msg); err != nil {
		return fmt.Errorf("send password reset email: %w", err)
	}
	return nil
}

func (m *PasswordResetMailer) buildMessage(email, name, resetURL string) (*gomail.Message, error) {
	html, text, err := renderPasswordReset(resetData{AppName: m.appName, Name: name, ResetURL: resetURL, ValidFor: describeTTL(m.ttl)})
	if err != nil {
		return nil, err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", fmt.Sprintf("Reset Your %s Password", m.appName))
	msg.SetBody("text/html", html)
	msg.AddAlternative("text/plain", text)
	return msg, nil
}

func renderPasswordReset(data resetData) (string, string, error) {
	var html, text bytes.Buffer
	if err := htmlBody.Execute(&html, data); err != nil {
		return "", "", fmt.Errorf("render html body: %w", err)
	}
	if err := textBody.Execute(&text, data); err != nil {
		return "", "", fmt.Errorf("render text body: %w", err)
	}
	return html.String(), text.String(), nil
}

// describeTTL renders a lifetime as "1 hour", "2 hours" or "30 minutes".
func describeTTL(d time.Duration) string {
	if d <= 0 {
		d = time.Hour
	}
	unit, n := "minute", int64(d.Round(time.Minute)/time.Minute)
	if d%time.Hour == 0 {
		unit, n = "hour", int64(d/time.Hour)
	}
	if n < 1 {
		n = 1
	}
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
