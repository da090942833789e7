// Package mailer sends the password-reset email. Delivery is an external
// collaborator; the app only needs "fire and forget" semantics.
package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// Mailer delivers a password-reset link to a user.
type Mailer interface {
	SendPasswordReset(to, username, resetURL string) error
}

// SMTPMailer sends via a plain SMTP relay.
type SMTPMailer struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

func (m *SMTPMailer) SendPasswordReset(to, username, resetURL string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Reset Your Password\r\n\r\n"+
		"Hi %s,\r\n\r\nTo reset your password visit the following link:\r\n\r\n%s\r\n\r\n"+
		"If you have not requested a password reset simply ignore this message.\r\n",
		m.From, to, username, resetURL)
	var a smtp.Auth
	if m.User != "" {
		a = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}
	return smtp.SendMail(m.Host+":"+m.Port, a, m.From, []string{to}, []byte(msg))
}

// LogMailer logs the reset link instead of sending it. Used when SMTP is not
// configured (development, tests).
type LogMailer struct {
	Log zerolog.Logger
}

func (m *LogMailer) SendPasswordReset(to, username, resetURL string) error {
	m.Log.Info().Str("to", to).Str("username", username).Str("reset_url", resetURL).
		Msg("password reset mail (smtp not configured)")
	return nil
}
