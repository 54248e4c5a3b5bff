// Package mailer delivers administrator notifications.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TemirB/order-enrichment/internal/config"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

var ErrNoRecipients = errors.New("no recipients")

// SMTP sends plain-text mail through one relay. A connection is opened per
// message; notifications are rare.
type SMTP struct {
	client *mail.Client
	from   string
	logger *zap.Logger
}

func NewSMTP(cfg config.SMTP, from string, logger *zap.Logger) (*SMTP, error) {
	policy := mail.TLSOpportunistic
	if cfg.RequireTLS {
		policy = mail.TLSMandatory
	}
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(15 * time.Second),
		mail.WithTLSPolicy(policy),
	}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTP{client: client, from: from, logger: logger}, nil
}

func (s *SMTP) Send(ctx context.Context, to []string, subject, body string) error {
	msg, err := buildMessage(s.from, to, subject, body)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	s.logger.Debug("mail sent", zap.Strings("to", to), zap.String("subject", subject))
	return nil
}

func buildMessage(from string, to []string, subject, body string) (*mail.Msg, error) {
	if len(to) == 0 {
		return nil, ErrNoRecipients
	}
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("from %q: %w", from, err)
	}
	if err := msg.To(to...); err != nil {
		return nil, fmt.Errorf("to %s: %w", strings.Join(to, ","), err)
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

// Log writes notifications to the log instead of sending them. It stands in
// for SMTP when no relay is configured.
type Log struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log { return &Log{logger: logger} }

func (l *Log) Send(_ context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return ErrNoRecipients
	}
	l.logger.Warn("notification (smtp not configured)",
		zap.Strings("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
