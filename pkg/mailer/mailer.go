package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer is the external notification collaborator used by the password
// reset flow.
type Mailer interface {
	SendPasswordReset(to, token string) error
}

type smtpMailer struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
}

// NewSMTPMailer builds an SMTP-backed Mailer. baseURL is the public frontend
// address embedded in the reset link.
func NewSMTPMailer(host string, port int, username, password, from, baseURL string) Mailer {
	return &smtpMailer{
		dialer:  gomail.NewDialer(host, port, username, password),
		from:    from,
		baseURL: baseURL,
	}
}

func (m *smtpMailer) SendPasswordReset(to, token string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Reset your password")
	msg.SetBody("text/html", fmt.Sprintf(
		`<p>A password reset was requested for this address.</p>
<p><a href="%s/reset-password?token=%s">Click here to choose a new password.</a></p>
<p>The link is valid for one hour. If you did not request a reset you can ignore this email.</p>`,
		m.baseURL, token,
	))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	return nil
}
