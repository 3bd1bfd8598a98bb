package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"MarketBriefing/internal/config"
	"MarketBriefing/internal/logger"
)

// DeliveryError means the message could not be handed to the SMTP server.
type DeliveryError struct {
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver to %s: %v", e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// dialer is the part of *mail.Client the Mailer needs.
type dialer interface {
	DialAndSendWithContext(ctx context.Context, msgs ...*mail.Msg) error
}

// Mailer sends the briefing to a single recipient over SMTP with implicit TLS.
type Mailer struct {
	From   string
	To     string
	client dialer
	logger *zap.Logger
}

// NewMailer validates the credentials and builds an authenticated SMTP client.
// Missing credentials yield a *config.ConfigError and no client.
func NewMailer(cfg config.MailConfig, log *zap.Logger) (*Mailer, error) {
	if err := cfg.ValidateMail(); err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return newMailer(cfg, client, log), nil
}

func newMailer(cfg config.MailConfig, client dialer, log *zap.Logger) *Mailer {
	to := cfg.To
	if to == "" {
		to = cfg.Username
	}
	return &Mailer{From: cfg.Username, To: to, client: client, logger: logger.OrNop(log)}
}

// Send delivers a multipart/alternative message with plain text and HTML parts.
// It does not retry.
func (m *Mailer) Send(ctx context.Context, subject, text, html string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.From); err != nil {
		return &DeliveryError{Recipient: m.To, Err: fmt.Errorf("sender address: %w", err)}
	}
	if err := msg.To(m.To); err != nil {
		return &DeliveryError{Recipient: m.To, Err: fmt.Errorf("recipient address: %w", err)}
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(mail.TypeTextPlain, text)
	if html != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, html)
	}

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return &DeliveryError{Recipient: m.To, Err: err}
	}
	m.logger.Info("briefing sent", zap.String("to", m.To), zap.String("subject", subject))
	return nil
}
