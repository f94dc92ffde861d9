package mailer

import (
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Config holds SMTP settings for sending emails.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Validate checks that the settings needed to dial the SMTP server are present.
func (c Config) Validate() error {
	var errs []error
	if c.Host == "" {
		errs = append(errs, errors.New("missing SMTP host"))
	}
	if c.Port == 0 {
		errs = append(errs, errors.New("missing SMTP port"))
	}
	if c.From == "" {
		errs = append(errs, errors.New("missing SMTP from address"))
	}
	return errors.Join(errs...)
}

// Sender delivers a prepared message.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer represents an email sender.
type Mailer struct {
	from   string
	sender Sender
}

// Email represents an email message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// NewMailer creates a Mailer that dials the SMTP server described by cfg.
func NewMailer(cfg Config) *Mailer {
	return NewMailerWithSender(cfg.From, gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password))
}

// NewMailerWithSender creates a Mailer using sender for delivery.
func NewMailerWithSender(from string, sender Sender) *Mailer {
	return &Mailer{from: from, sender: sender}
}

// Send sends a single email.
func (m *Mailer) Send(email Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	return m.sender.DialAndSend(m.buildMessage(email))
}

// SendHTML sends an HTML email.
func (m *Mailer) SendHTML(to []string, subject, htmlBody string) error {
	return m.Send(Email{
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
	})
}

func (m *Mailer) buildMessage(email Email) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		msg.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			msg.AddAlternative("text/plain", email.Body)
		}
	} else {
		msg.SetBody("text/plain", email.Body)
	}

	return msg
}
