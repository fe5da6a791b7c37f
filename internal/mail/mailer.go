package mail

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// ErrNotConfigured is returned when SMTP credentials or the recipient are missing
var ErrNotConfigured = errors.New("mail: smtp credentials or recipient not configured")

// Config holds SMTP settings
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	To       string
}

// Attachment is an in-memory file
type Attachment struct {
	Name    string
	Content []byte
}

// Message is one HTML email; an empty To uses the configured recipient
type Message struct {
	To          string
	Subject     string
	HTML        string
	Inline      []Attachment
	Attachments []Attachment
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends HTML email over SMTP with STARTTLS
type Mailer struct {
	cfg    Config
	dialer dialer
	logger *zap.Logger
}

// NewMailer creates a new mailer
func NewMailer(cfg Config, logger *zap.Logger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		logger: logger,
	}
}

// Configured reports whether credentials and a recipient are set
func (m *Mailer) Configured() bool {
	return m.cfg.User != "" && m.cfg.Password != "" && m.cfg.To != ""
}

// Send delivers msg
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	to := msg.To
	if to == "" {
		to = m.cfg.To
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.cfg.User)
	gm.SetHeader("To", to)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)

	for _, a := range msg.Inline {
		gm.Embed(a.Name, copyFrom(a.Content))
	}
	for _, a := range msg.Attachments {
		gm.Attach(a.Name, copyFrom(a.Content))
	}

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	m.logger.Info("Email sent",
		zap.String("to", to),
		zap.String("subject", msg.Subject),
		zap.Int("attachments", len(msg.Inline)+len(msg.Attachments)),
	)
	return nil
}

func copyFrom(content []byte) gomail.FileSetting {
	return gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	})
}
