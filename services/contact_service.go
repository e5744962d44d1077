package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ReviveTech/revive-backend/config"
	"github.com/ReviveTech/revive-backend/internal/quota"
	"github.com/ReviveTech/revive-backend/internal/token"
	"github.com/ReviveTech/revive-backend/logger"
	"github.com/ReviveTech/revive-backend/types"
	"github.com/prometheus/client_golang/prometheus"
)

// ContactMetrics tracks pipeline outcomes for the /metrics endpoint.
type ContactMetrics struct {
	decisions *prometheus.CounterVec
}

func newContactMetrics(reg prometheus.Registerer) *ContactMetrics {
	m := &ContactMetrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "revive_contact_decisions_total",
			Help: "Contact submissions by pipeline decision",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.decisions)
	return m
}

// ContactService runs every contact submission through the decision pipeline:
// honeypot, timing token, validation, daily quota, then email dispatch. Gates
// are evaluated in that fixed order and the first failure is terminal.
type ContactService struct {
	cfg     *config.Config
	issuer  *token.Issuer
	quota   *quota.DailyQuota
	sender  types.EmailSender
	metrics *ContactMetrics

	sendTimeout time.Duration
	now         func() time.Time
}

func NewContactService(cfg *config.Config, issuer *token.Issuer, dailyQuota *quota.DailyQuota, sender types.EmailSender) *ContactService {
	return NewContactServiceWithRegistry(cfg, issuer, dailyQuota, sender, prometheus.DefaultRegisterer)
}

func NewContactServiceWithRegistry(cfg *config.Config, issuer *token.Issuer, dailyQuota *quota.DailyQuota, sender types.EmailSender, reg prometheus.Registerer) *ContactService {
	return &ContactService{
		cfg:         cfg,
		issuer:      issuer,
		quota:       dailyQuota,
		sender:      sender,
		metrics:     newContactMetrics(reg),
		sendTimeout: time.Duration(cfg.Email.SendTimeoutSeconds) * time.Second,
		now:         time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *ContactService) WithClock(now func() time.Time) *ContactService {
	s.now = now
	return s
}

// IssueToken mints a fresh timing token for a form render.
func (s *ContactService) IssueToken() (string, error) {
	return s.issuer.Issue(s.now())
}

// Submit evaluates one submission and returns a terminal Decision. Every
// failure mode maps to a Decision value; no error escapes this boundary.
func (s *ContactService) Submit(ctx context.Context, sub *types.Submission) types.Decision {
	log := logger.GetLogger()
	now := s.now()

	// Bots fill the hidden field; humans cannot see it. Respond as if the
	// submission succeeded so automation gets no signal to adapt to.
	if strings.TrimSpace(sub.Website) != "" {
		log.Infow("Submission discarded: honeypot triggered",
			"client", sub.ClientID)
		return s.decide(types.SoftRejected())
	}

	// A missing, forged, or out-of-window token is indistinguishable from
	// "filled too fast" on purpose; both land in the same silent branch.
	age, ok := s.issuer.Verify(sub.TimingToken, now)
	if !ok {
		log.Infow("Submission discarded: timing token rejected",
			"client", sub.ClientID)
		return s.decide(types.SoftRejected())
	}

	if fieldErrors := ValidateSubmission(sub); len(fieldErrors) > 0 {
		log.Debugw("Submission failed validation",
			"client", sub.ClientID,
			"fields", fieldKeys(fieldErrors))
		return s.decide(types.ValidationFailed(fieldErrors))
	}

	if !s.quota.TryConsume(now) {
		log.Warnw("Submission rejected: daily quota exhausted",
			"client", sub.ClientID,
			"daily_limit", s.cfg.Contact.DailyLimit)
		return s.decide(types.QuotaExceeded())
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	if err := s.sender.Send(sendCtx, s.composeEmail(sub)); err != nil {
		// Full detail stays in the logs; the caller renders a generic
		// retry-later message. No automatic retry.
		log.Errorw("Submission accepted but email dispatch failed",
			"client", sub.ClientID,
			"error", err)
		return s.decide(types.SendFailed(err))
	}

	log.Infow("Submission accepted",
		"client", sub.ClientID,
		"fill_time", age,
		"email", logger.MaskEmail(sub.Email))
	return s.decide(types.Accepted())
}

func (s *ContactService) decide(d types.Decision) types.Decision {
	s.metrics.decisions.WithLabelValues(string(d.Kind)).Inc()
	return d
}

func (s *ContactService) composeEmail(sub *types.Submission) types.EmailData {
	body := fmt.Sprintf(
		"New contact request\n"+
			"\n"+
			"Name:           %s\n"+
			"Email:          %s\n"+
			"Phone:          %s\n"+
			"Service:        %s\n"+
			"Device:         %s\n"+
			"Service mode:   %s\n"+
			"Contact method: %s\n"+
			"\n"+
			"Message:\n%s\n",
		sub.Name,
		sub.Email,
		sub.PhoneNumber,
		sub.ServiceType,
		sub.DeviceType,
		sub.ServiceMode,
		sub.ContactMethod,
		sub.Message,
	)

	data := types.EmailData{
		To:      s.cfg.Email.ToAddress,
		Subject: fmt.Sprintf("Website contact from %s", sub.Name),
		Body:    body,
	}
	if sub.Email != "" {
		data.ReplyTo = fmt.Sprintf("%s <%s>", sub.Name, sub.Email)
	}
	return data
}

func fieldKeys(fieldErrors map[string][]string) []string {
	keys := make([]string, 0, len(fieldErrors))
	for k := range fieldErrors {
		keys = append(keys, k)
	}
	return keys
}
