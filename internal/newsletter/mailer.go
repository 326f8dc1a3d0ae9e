// Package newsletter delivers newsletter campaigns to the active subscribers.
package newsletter

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/mail.v2"

	"github.com/jesite/jesite/internal/config"
)

// Message is one outgoing email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends through an SMTP relay.
type SMTPMailer struct {
	dialer *mail.Dialer
	from   string
}

// NewSMTPMailer returns a mailer for the relay configured in cfg.
func NewSMTPMailer(cfg config.Mail) *SMTPMailer {
	return &SMTPMailer{
		dialer: mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send implements Mailer.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	em := mail.NewMessage()
	em.SetHeader("From", m.from)
	em.SetHeader("To", msg.To)
	em.SetHeader("Subject", msg.Subject)
	em.SetBody("text/plain", msg.Body)

	if err := m.dialer.DialAndSend(em); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}

	return nil
}

// LogMailer only logs the messages. It is used while mail is disabled.
type LogMailer struct{}

// Send implements Mailer.
func (LogMailer) Send(_ context.Context, msg Message) error {
	log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("mail disabled, email not sent")

	return nil
}

// NewMailer picks the SMTP mailer when mail is enabled, the log mailer otherwise.
func NewMailer(cfg config.Mail) Mailer {
	if !cfg.Enabled {
		return LogMailer{}
	}

	return NewSMTPMailer(cfg)
}
