package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/ReviveTech/revive-backend/logger"
	"github.com/ReviveTech/revive-backend/middleware"
	"github.com/ReviveTech/revive-backend/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.IsTest = true
}

type mockPipeline struct {
	mock.Mock
}

func (m *mockPipeline) IssueToken() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *mockPipeline) Submit(ctx context.Context, sub *types.Submission) types.Decision {
	args := m.Called(ctx, sub)
	return args.Get(0).(types.Decision)
}

func contactRouter(pipeline ContactPipeline) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())

	h := NewContactHandler(pipeline)
	r.GET("/v1/contact/token", h.IssueToken)
	r.POST("/v1/contact", h.SubmitContact)
	return r
}

func postJSON(r *gin.Engine, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/v1/contact", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIssueToken(t *testing.T) {
	pipeline := &mockPipeline{}
	pipeline.On("IssueToken").Return("signed-token", nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/v1/contact/token", nil)
	w := httptest.NewRecorder()
	contactRouter(pipeline).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp types.StandardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "signed-token", resp.Data.(map[string]any)["token"])
}

func TestSubmitContact_Accepted(t *testing.T) {
	pipeline := &mockPipeline{}

	var captured *types.Submission
	pipeline.On("Submit", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*types.Submission) }).
		Return(types.Accepted()).Once()

	w := postJSON(contactRouter(pipeline), gin.H{
		"name":            "Jordan Reyes",
		"email":           "jordan@example.com",
		"message":         "My laptop screen cracked and I need it repaired.",
		"service_type":    "Screen repair",
		"contact_method":  "Email",
		"privacy_consent": true,
		"form_token":      "tok",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "We received your message")

	require.NotNil(t, captured)
	assert.Equal(t, "Jordan Reyes", captured.Name)
	assert.Equal(t, "tok", captured.TimingToken)
	assert.Equal(t, "203.0.113.7", captured.ClientID, "client id must come from the connection")
}

func TestSubmitContact_SoftRejectionLooksLikeSuccess(t *testing.T) {
	pipeline := &mockPipeline{}
	pipeline.On("Submit", mock.Anything, mock.Anything).Return(types.Accepted()).Once()
	accepted := postJSON(contactRouter(pipeline), gin.H{"name": "a"})

	pipeline = &mockPipeline{}
	pipeline.On("Submit", mock.Anything, mock.Anything).Return(types.SoftRejected()).Once()
	rejected := postJSON(contactRouter(pipeline), gin.H{"name": "a"})

	assert.Equal(t, accepted.Code, rejected.Code)
	assert.Equal(t, accepted.Body.String(), rejected.Body.String())
}

func TestSubmitContact_ValidationFailed(t *testing.T) {
	pipeline := &mockPipeline{}
	pipeline.On("Submit", mock.Anything, mock.Anything).
		Return(types.ValidationFailed(map[string][]string{
			"email": {"An email address is required."},
		})).Once()

	w := postJSON(contactRouter(pipeline), gin.H{"name": "a"})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp types.StandardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "email")
}

func TestSubmitContact_QuotaExceeded(t *testing.T) {
	pipeline := &mockPipeline{}
	pipeline.On("Submit", mock.Anything, mock.Anything).Return(types.QuotaExceeded()).Once()

	w := postJSON(contactRouter(pipeline), gin.H{"name": "a"})

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "daily submission limit")
}

func TestSubmitContact_SendFailedIsGeneric(t *testing.T) {
	pipeline := &mockPipeline{}
	pipeline.On("Submit", mock.Anything, mock.Anything).
		Return(types.SendFailed(assert.AnError)).Once()

	w := postJSON(contactRouter(pipeline), gin.H{"name": "a"})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "try again later")
	assert.NotContains(t, w.Body.String(), assert.AnError.Error(),
		"transport detail must not leak to the client")
}

func TestSubmitContact_BindsFormEncoded(t *testing.T) {
	pipeline := &mockPipeline{}

	var captured *types.Submission
	pipeline.On("Submit", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*types.Submission) }).
		Return(types.Accepted()).Once()

	form := url.Values{}
	form.Set("name", "Jordan Reyes")
	form.Set("message", "My laptop screen cracked and I need it repaired.")
	form.Set("contact_method", "phone call")
	form.Set("phone", "555-0134")
	form.Set("privacy_consent", "true")

	req := httptest.NewRequest(http.MethodPost, "/v1/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	contactRouter(pipeline).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "phone call", captured.ContactMethod)
	assert.True(t, captured.PrivacyConsent)
}
