package email

import (
	"context"
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/medictrans/oncall-api/internal/model"
)

// Sender delivers a queued mail.
type Sender interface {
	Send(ctx context.Context, mail *model.Email) error
}

type SMTPConfig struct {
	Host     string `envconfig:"HOST" required:"true"`
	Port     int    `envconfig:"PORT" default:"587"`
	Username string `envconfig:"USERNAME"`
	Password string `envconfig:"PASSWORD"`
	From     string `envconfig:"FROM" default:"MedicTrans <no-reply@medictrans-oncall.com>"`
	// InsecureSkipVerify is meant for local relays such as MailHog.
	InsecureSkipVerify bool `envconfig:"INSECURE_SKIP_VERIFY"`
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg SMTPConfig) Sender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.InsecureSkipVerify {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &smtpSender{dialer: d, from: cfg.From}
}

func (s *smtpSender) Send(ctx context.Context, mail *model.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(NewMessage(s.from, mail)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", mail.To, err)
	}
	return nil
}

// NewMessage renders mail as a multipart text and HTML message.
func NewMessage(from string, mail *model.Email) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", mail.To)
	m.SetHeader("Subject", mail.Message.Subject)
	m.SetBody("text/plain", mail.Message.Text)
	if mail.Message.HTML != "" {
		m.AddAlternative("text/html", mail.Message.HTML)
	}
	return m
}
