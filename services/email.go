package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"docuchat-backend/internal/config"
	"docuchat-backend/internal/logger"
)

type EmailSender interface {
	SendOTP(email, name, purpose, code string) error
}

type SMTPEmailSender struct {
	config *config.Config
}

func NewSMTPEmailSender(cfg *config.Config) *SMTPEmailSender {
	return &SMTPEmailSender{config: cfg}
}

type otpEmailData struct {
	Name    string
	Purpose string
	Code    string
}

const otpTextTemplate = `Hi {{.Name}},

Your verification code to {{.Purpose}} is: {{.Code}}

The code expires in 5 minutes. If you did not request it, you can ignore this email.
`

const otpHTMLTemplate = `<html><body>
<p>Hi {{.Name}},</p>
<p>Your verification code to {{.Purpose}} is:</p>
<h2>{{.Code}}</h2>
<p>The code expires in 5 minutes. If you did not request it, you can ignore this email.</p>
</body></html>`

func (s *SMTPEmailSender) SendOTP(email, name, purpose, code string) error {
	subject := "Your verification code"
	data := otpEmailData{Name: name, Purpose: purpose, Code: code}

	textT, err := template.New("text").Parse(otpTextTemplate)
	if err != nil {
		return err
	}
	htmlT, err := template.New("html").Parse(otpHTMLTemplate)
	if err != nil {
		return err
	}

	var textBuf, htmlBuf bytes.Buffer
	if err := textT.Execute(&textBuf, data); err != nil {
		return err
	}
	if err := htmlT.Execute(&htmlBuf, data); err != nil {
		return err
	}

	return s.sendEmail(email, subject, htmlBuf.String(), textBuf.String())
}

func (s *SMTPEmailSender) sendEmail(recipient, subject, htmlBody, textBody string) error {
	auth := smtp.PlainAuth("", s.config.SMTPUser, s.config.SMTPPass, s.config.SMTPHost)

	message := fmt.Sprintf(`From: %s
To: %s
Subject: %s
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="boundary123"

--boundary123
Content-Type: text/plain; charset=UTF-8

%s

--boundary123
Content-Type: text/html; charset=UTF-8

%s

--boundary123--`, s.config.SMTPFrom, recipient, subject, textBody, htmlBody)

	addr := s.config.SMTPHost + ":" + s.config.SMTPPort
	if err := smtp.SendMail(addr, auth, s.config.SMTPFrom, []string{recipient}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", recipient, err)
	}
	return nil
}

// LogEmailSender is used when SMTP is not configured. The code lands in
// the logs so local setups can complete the flow.
type LogEmailSender struct{}

func (LogEmailSender) SendOTP(email, name, purpose, code string) error {
	logger.Info("SMTP not configured, logging verification code",
		"email", email, "purpose", purpose, "code", code)
	return nil
}

// NewEmailSender picks SMTP when configured, the logging fallback
// otherwise.
func NewEmailSender(cfg *config.Config) EmailSender {
	if cfg.SMTPHost == "" || cfg.SMTPFrom == "" {
		return LogEmailSender{}
	}
	return NewSMTPEmailSender(cfg)
}
