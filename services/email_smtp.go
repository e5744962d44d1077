package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"github.com/ReviveTech/revive-backend/config"
	"github.com/ReviveTech/revive-backend/logger"
	"github.com/ReviveTech/revive-backend/types"
	"github.com/jordan-wright/email"
)

// SMTPEmailService delivers contact notifications over plain SMTP for
// deployments without a Resend account.
type SMTPEmailService struct {
	config *config.EmailConfig
}

func NewSMTPEmailService(cfg *config.EmailConfig) *SMTPEmailService {
	logger.GetLogger().Infow("Initializing email service",
		"provider", "smtp",
		"host", cfg.SMTPHost,
		"from", logger.MaskEmail(cfg.FromAddress))
	return &SMTPEmailService{config: cfg}
}

// Send delivers one plain-text email. The smtp library offers no context
// support, so the dial-and-send runs in a goroutine and the context deadline
// wins the race against it.
func (s *SMTPEmailService) Send(ctx context.Context, data types.EmailData) error {
	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress)
	e.To = []string{data.To}
	e.Subject = data.Subject
	e.Text = []byte(data.Body)
	if data.ReplyTo != "" {
		e.ReplyTo = []string{data.ReplyTo}
	}

	addr := net.JoinHostPort(s.config.SMTPHost, strconv.Itoa(s.config.SMTPPort))
	var auth smtp.Auth
	if s.config.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUser, s.config.SMTPPassword, s.config.SMTPHost)
	}

	done := make(chan error, 1)
	go func() {
		if s.config.SMTPUseTLS {
			done <- e.SendWithStartTLS(addr, auth, &tls.Config{
				ServerName: s.config.SMTPHost,
				MinVersion: tls.VersionTLS12,
			})
		} else {
			done <- e.Send(addr, auth)
		}
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.GetLogger().Errorw("Failed to send email",
				"error", err,
				"to", logger.MaskEmail(data.To),
				"subject", data.Subject)
			return fmt.Errorf("email send failed: %w", err)
		}
		logger.GetLogger().Infow("Email sent successfully",
			"to", logger.MaskEmail(data.To),
			"subject", data.Subject)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("email send aborted: %w", ctx.Err())
	}
}
