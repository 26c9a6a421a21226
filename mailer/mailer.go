/*
Package mailer delivers report emails over SMTP.

PURPOSE:
  Small seam between the job runner and the outside world. The SMTP
  implementation wraps wneessen/go-mail; the Disabled implementation lets
  everything else run without mail credentials configured.
*/
package mailer

import (
	"bytes"
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"
)

// Attachment is a file carried by a message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is one outbound email.
type Message struct {
	From        string
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Mailer sends messages. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
	Enabled() bool
}

// SMTPConfig holds connection settings for the SMTP mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTP sends mail through a real SMTP server.
type SMTP struct {
	client *mail.Client
}

// NewSMTP builds an SMTP mailer, or an error when the config is unusable.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}

	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTP{client: client}, nil
}

// Enabled reports that this mailer actually delivers.
func (s *SMTP) Enabled() bool { return true }

// Send delivers one message, honoring ctx for the dial and transfer.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return fmt.Errorf("bad from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("bad recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	for _, att := range msg.Attachments {
		if err := m.AttachReader(att.Filename, bytes.NewReader(att.Data),
			mail.WithFileContentType(mail.ContentType(att.ContentType))); err != nil {
			return fmt.Errorf("attach %s: %w", att.Filename, err)
		}
	}

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

// Disabled is a Mailer that refuses to send. Callers check Enabled() and
// skip dispatch work entirely when mail is not configured.
type Disabled struct{}

func (Disabled) Enabled() bool { return false }

func (Disabled) Send(ctx context.Context, msg Message) error {
	return fmt.Errorf("mail delivery is not configured")
}
