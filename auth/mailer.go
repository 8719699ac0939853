//go:generate go run go.uber.org/mock/mockgen -source=mailer.go -destination=../mocks/mock_mailer.go -package=mocks
package auth

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"gopkg.in/gomail.v2"
)

//go:embed templates/otp_email.html
var templatesFS embed.FS

var otpTemplate = template.Must(template.ParseFS(templatesFS, "templates/otp_email.html"))

const otpSubject = "ChatCrest U! Registration OTP"

type Mailer interface {
	SendOTP(to, username, code string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *SMTPMailer) SendOTP(to, username, code string) error {
	body, err := RenderOTPEmail(username, code)
	if err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", otpSubject)
	m.SetBody("text/html", body)
	return s.dialer.DialAndSend(m)
}

// LogMailer replaces SMTP delivery in development, codes go to the log.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (l *LogMailer) SendOTP(to, username, code string) error {
	l.log.Info("OTP issued (no SMTP configured)", "to", to, "username", username, "code", code)
	return nil
}

func RenderOTPEmail(username, code string) (string, error) {
	var buf bytes.Buffer
	err := otpTemplate.Execute(&buf, map[string]string{"Name": username, "OTP": code})
	if err != nil {
		return "", fmt.Errorf("failed to execute otp template: %w", err)
	}
	return buf.String(), nil
}
