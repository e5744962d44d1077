package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ReviveTech/revive-backend/config"
	"github.com/ReviveTech/revive-backend/internal/quota"
	"github.com/ReviveTech/revive-backend/internal/token"
	"github.com/ReviveTech/revive-backend/logger"
	"github.com/ReviveTech/revive-backend/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, data types.EmailData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

type pipelineFixture struct {
	service *ContactService
	sender  *mockSender
	issuer  *token.Issuer
	now     time.Time
}

func newPipelineFixture(t *testing.T, dailyLimit int) *pipelineFixture {
	t.Helper()

	cfg := &config.Config{
		Email: config.EmailConfig{
			FromAddress:        "noreply@revivetech.example",
			FromName:           "ReviveTech Website",
			ToAddress:          "hello@revivetech.example",
			SendTimeoutSeconds: 5,
		},
		Contact: config.ContactConfig{
			MinFillSeconds:     3,
			MaxTokenAgeSeconds: 3600,
			DailyLimit:         dailyLimit,
		},
	}

	issuer := token.NewIssuer("pipeline-test-secret-0123456789ab", 3*time.Second, time.Hour)
	sender := &mockSender{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	service := NewContactServiceWithRegistry(cfg, issuer, quota.NewDailyQuota(dailyLimit), sender, prometheus.NewRegistry()).
		WithClock(func() time.Time { return now })

	return &pipelineFixture{service: service, sender: sender, issuer: issuer, now: now}
}

// submission returns a fully valid submission carrying a token issued a
// plausible fill time ago.
func (f *pipelineFixture) submission(t *testing.T) *types.Submission {
	t.Helper()

	tok, err := f.issuer.Issue(f.now.Add(-30 * time.Second))
	require.NoError(t, err)

	s := validSubmission()
	s.TimingToken = tok
	s.ClientID = "203.0.113.7"
	return s
}

func TestSubmit_Accepted(t *testing.T) {
	f := newPipelineFixture(t, 10)
	f.sender.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	decision := f.service.Submit(context.Background(), f.submission(t))

	assert.Equal(t, types.DecisionAccepted, decision.Kind)
	f.sender.AssertExpectations(t)
	f.sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestSubmit_ComposesNotificationEmail(t *testing.T) {
	f := newPipelineFixture(t, 10)

	var sent types.EmailData
	f.sender.On("Send", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(types.EmailData) }).
		Return(nil).Once()

	f.service.Submit(context.Background(), f.submission(t))

	assert.Equal(t, "hello@revivetech.example", sent.To)
	assert.Equal(t, "Website contact from Jordan Reyes", sent.Subject)
	assert.Equal(t, "Jordan Reyes <jordan@example.com>", sent.ReplyTo)
	assert.Contains(t, sent.Body, "Screen repair")
	assert.Contains(t, sent.Body, "My laptop screen cracked")
}

func TestSubmit_HoneypotSoftRejects(t *testing.T) {
	f := newPipelineFixture(t, 10)

	// Every other field is invalid too; the honeypot must win regardless.
	s := &types.Submission{Website: "https://spam.example"}
	decision := f.service.Submit(context.Background(), s)

	assert.Equal(t, types.DecisionSoftRejected, decision.Kind)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSubmit_TimingTokenSoftRejects(t *testing.T) {
	f := newPipelineFixture(t, 10)

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{"missing token", func(t *testing.T) string { return "" }},
		{"garbage token", func(t *testing.T) string { return "not-a-token" }},
		{"too fast", func(t *testing.T) string {
			tok, err := f.issuer.Issue(f.now.Add(-2 * time.Second))
			require.NoError(t, err)
			return tok
		}},
		{"too old", func(t *testing.T) string {
			tok, err := f.issuer.Issue(f.now.Add(-(time.Hour + time.Second)))
			require.NoError(t, err)
			return tok
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := f.submission(t)
			s.TimingToken = tt.token(t)

			decision := f.service.Submit(context.Background(), s)
			assert.Equal(t, types.DecisionSoftRejected, decision.Kind)
		})
	}
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSubmit_ValidationFailedPreservesFieldErrors(t *testing.T) {
	f := newPipelineFixture(t, 10)

	s := f.submission(t)
	s.ContactMethod = "any"
	s.Email = ""
	s.PhoneNumber = ""

	decision := f.service.Submit(context.Background(), s)

	assert.Equal(t, types.DecisionValidationFailed, decision.Kind)
	assert.Len(t, decision.FieldErrors, 2)
	assert.Contains(t, decision.FieldErrors, "email")
	assert.Contains(t, decision.FieldErrors, "phone")
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSubmit_QuotaExceeded(t *testing.T) {
	f := newPipelineFixture(t, 2)
	f.sender.On("Send", mock.Anything, mock.Anything).Return(nil).Times(2)

	for i := 0; i < 2; i++ {
		decision := f.service.Submit(context.Background(), f.submission(t))
		require.Equal(t, types.DecisionAccepted, decision.Kind)
	}

	decision := f.service.Submit(context.Background(), f.submission(t))
	assert.Equal(t, types.DecisionQuotaExceeded, decision.Kind)
	f.sender.AssertNumberOfCalls(t, "Send", 2)
}

func TestSubmit_SendFailureNoRetry(t *testing.T) {
	f := newPipelineFixture(t, 10)
	cause := errors.New("connection refused")
	f.sender.On("Send", mock.Anything, mock.Anything).Return(cause).Once()

	decision := f.service.Submit(context.Background(), f.submission(t))

	assert.Equal(t, types.DecisionSendFailed, decision.Kind)
	assert.ErrorIs(t, decision.Cause, cause)
	f.sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestSubmit_SendTimeoutBoundsTheCall(t *testing.T) {
	f := newPipelineFixture(t, 10)
	f.service.sendTimeout = 10 * time.Millisecond

	f.sender.On("Send", mock.Anything, mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			deadline, ok := ctx.Deadline()
			assert.True(t, ok, "send context must carry a deadline")
			assert.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 50*time.Millisecond)
		}).Once()

	f.service.Submit(context.Background(), f.submission(t))
}

func TestIssueToken_RoundTrips(t *testing.T) {
	f := newPipelineFixture(t, 10)

	tok, err := f.service.IssueToken()
	require.NoError(t, err)

	age, ok := f.issuer.Verify(tok, f.now.Add(30*time.Second))
	assert.True(t, ok)
	assert.Equal(t, 30*time.Second, age)
}
