package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ReviveTech/revive-backend/config"
	"github.com/ReviveTech/revive-backend/logger"
	"github.com/ReviveTech/revive-backend/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"
)

// NewEmailSender builds the delivery transport selected by configuration.
func NewEmailSender(cfg *config.EmailConfig) types.EmailSender {
	switch cfg.Provider {
	case "smtp":
		return NewSMTPEmailService(cfg)
	default:
		return NewEmailService(cfg)
	}
}

type EmailMetrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

// resendEmailsAPI is the slice of the Resend client the service uses.
// Extracted so tests can substitute a fake.
type resendEmailsAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// EmailService delivers contact notifications through the Resend API.
type EmailService struct {
	config  *config.EmailConfig
	emails  resendEmailsAPI
	metrics *EmailMetrics
}

func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return NewEmailServiceWithRegistry(cfg, prometheus.DefaultRegisterer)
}

func NewEmailServiceWithRegistry(cfg *config.EmailConfig, reg prometheus.Registerer) *EmailService {
	logger.GetLogger().Infow("Initializing email service",
		"provider", "resend",
		"from", logger.MaskEmail(cfg.FromAddress),
		"to", logger.MaskEmail(cfg.ToAddress))
	client := resend.NewClient(cfg.ResendAPIKey)
	metrics := &EmailMetrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "revive_email_send_duration_seconds",
			Help:    "Time taken to send emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "revive_email_errors_total",
			Help: "Total number of email sending errors",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "revive_emails_sent_total",
			Help: "Total number of emails sent",
		}),
	}

	reg.MustRegister(metrics.sendLatency)
	reg.MustRegister(metrics.errorCount)
	reg.MustRegister(metrics.sentCount)

	return &EmailService{
		config:  cfg,
		emails:  client.Emails,
		metrics: metrics,
	}
}

// Send delivers one plain-text email. The context bounds the whole attempt.
func (s *EmailService) Send(ctx context.Context, data types.EmailData) error {
	startTime := time.Now()
	log := logger.GetLogger()
	defer func() {
		s.metrics.sendLatency.Observe(time.Since(startTime).Seconds())
	}()

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress),
		To:      []string{data.To},
		Subject: data.Subject,
		Text:    data.Body,
	}
	if data.ReplyTo != "" {
		params.ReplyTo = data.ReplyTo
	}

	_, err := s.emails.SendWithContext(ctx, params)
	if err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to send email",
			"error", err,
			"to", logger.MaskEmail(data.To),
			"subject", data.Subject)
		return fmt.Errorf("email send failed: %w", err)
	}

	s.metrics.sentCount.Inc()
	log.Infow("Email sent successfully",
		"to", logger.MaskEmail(data.To),
		"subject", data.Subject)

	return nil
}
