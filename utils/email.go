package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Mailer sends the application's transactional emails. Delivery details are
// the relay's problem; callers treat every send as best-effort.
type Mailer interface {
	SendWelcomeEmail(to, name string) error
	SendResetCodeEmail(to, code string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer builds a mailer from the SMTP_* environment variables.
func NewSMTPMailer() (*SMTPMailer, error) {
	host := os.Getenv("SMTP_HOST")
	portStr := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	password := os.Getenv("SMTP_PASSWORD")
	from := os.Getenv("SMTP_FROM")

	if host == "" || portStr == "" || from == "" {
		return nil, fmt.Errorf("SMTP_HOST, SMTP_PORT and SMTP_FROM must be set")
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %v", err)
	}

	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}, nil
}

func (m *SMTPMailer) SendWelcomeEmail(to, name string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Welcome to Taskboard!")

	body := fmt.Sprintf(`
		<h2>Welcome to Taskboard, %s!</h2>
		<p>Your account has been successfully created.</p>
		<p>You can now create tasks, join groups and track your work.</p>
	`, name)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send welcome email: %v", err)
	}
	return nil
}

func (m *SMTPMailer) SendResetCodeEmail(to, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your password reset code")

	body := fmt.Sprintf(`
		<h3>Password reset requested</h3>
		<p>Your reset code is <b>%s</b>. It expires in 15 minutes.</p>
		<p>If you did not request a reset, you can ignore this email.</p>
	`, code)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send reset email: %v", err)
	}
	return nil
}
