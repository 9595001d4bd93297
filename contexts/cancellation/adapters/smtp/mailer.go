package smtp

import (
	"bytes"
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/ports"
)

var _ ports.Mailer = (*Mailer)(nil)

// Config holds SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Mailer delivers notifications over SMTP.
type Mailer struct {
	cfg Config
}

func NewMailer(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Send(ctx context.Context, msg ports.Message) error {
	message := gomail.NewMsg()
	if msg.Sender.Name != "" {
		if err := message.FromFormat(msg.Sender.Name, msg.Sender.Address); err != nil {
			return fmt.Errorf("set sender: %w", err)
		}
	} else {
		if err := message.From(msg.Sender.Address); err != nil {
			return fmt.Errorf("set sender: %w", err)
		}
	}
	if err := message.To(msg.To); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	message.Subject(msg.Subject)
	message.SetBodyString(gomail.TypeTextHTML, msg.Body)
	for _, attachment := range msg.Attachments {
		message.AttachReader(attachment.Filename, bytes.NewReader(attachment.Data),
			gomail.WithFileContentType(gomail.ContentType(attachment.MimeType)))
	}

	opts := []gomail.Option{gomail.WithPort(m.cfg.Port)}
	if m.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}
	client, err := gomail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
