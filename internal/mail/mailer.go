package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
)

// Config holds SMTP settings for outgoing mail.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// VerifyURL is the base URL the verification token is appended to.
	VerifyURL string
}

// SMTPMailer sends transactional mail over authenticated SMTP.
type SMTPMailer struct {
	cfg  Config
	send sendFunc
}

// sendFunc matches smtp.SendMail, injectable for tests.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

var verificationTemplate = template.Must(template.New("verification").Parse(`<html>
  <body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
    <div style="max-width: 600px; margin: auto; background: #ffffff; padding: 24px; border-radius: 8px;">
      <h2 style="color: #333333;">Welcome to DocGenius AI, {{.Name}}!</h2>
      <p style="color: #555555;">
        Thanks for signing up. Please confirm your email address to activate your account.
      </p>
      <p style="text-align: center; margin: 32px 0;">
        <a href="{{.Link}}"
           style="background-color: #4f46e5; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 6px;">
          Verify Email
        </a>
      </p>
      <p style="color: #999999; font-size: 12px;">
        If you did not create an account, you can safely ignore this email.
      </p>
    </div>
  </body>
</html>`))

// SendVerification emails the account-activation link.
func (m *SMTPMailer) SendVerification(ctx context.Context, toEmail, toName, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	link := strings.TrimRight(m.cfg.VerifyURL, "/") + "/" + token

	var body bytes.Buffer
	if err := verificationTemplate.Execute(&body, struct {
		Name string
		Link string
	}{Name: toName, Link: link}); err != nil {
		return fmt.Errorf("failed to render verification email: %w", err)
	}

	msg := buildMessage(m.cfg.Username, toEmail, "Verify your DocGenius AI account", body.String())

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := m.send(addr, auth, m.cfg.Username, []string{toEmail}, msg); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
