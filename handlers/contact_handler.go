package handlers

import (
	"net/http"

	"github.com/ReviveTech/revive-backend/errors"
	"github.com/ReviveTech/revive-backend/middleware"
	"github.com/ReviveTech/revive-backend/types"
	"github.com/gin-gonic/gin"
)

// ContactHandler exposes the contact form endpoints.
type ContactHandler struct {
	pipeline ContactPipeline
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(pipeline ContactPipeline) *ContactHandler {
	return &ContactHandler{pipeline: pipeline}
}

// IssueToken hands the website a fresh timing token to embed in the form.
func (h *ContactHandler) IssueToken(c *gin.Context) {
	tok, err := h.pipeline.IssueToken()
	if err != nil {
		_ = c.Error(errors.InternalServerError("Could not prepare the contact form"))
		return
	}

	c.JSON(http.StatusOK, types.StandardResponse{
		Success: true,
		Data:    types.TokenResponse{Token: tok},
	})
}

// SubmitContact accepts a contact-form submission as JSON or
// form-urlencoded, runs it through the pipeline, and maps the decision onto
// an HTTP response. Soft rejections are deliberately indistinguishable from
// acceptance.
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var sub types.Submission
	if err := c.ShouldBind(&sub); err != nil {
		_ = c.Error(errors.New(errors.ValidationError, "We could not read your submission.", err.Error()))
		return
	}

	// The client identifier comes from the connection, never the payload.
	sub.ClientID = middleware.ClientIP(c)

	decision := h.pipeline.Submit(c.Request.Context(), &sub)
	switch decision.Kind {
	case types.DecisionAccepted, types.DecisionSoftRejected:
		c.JSON(http.StatusOK, types.StandardResponse{
			Success: true,
			Data:    types.StatusResponse{Status: "Thanks! We received your message and will get back to you soon."},
		})
	case types.DecisionValidationFailed:
		_ = c.Error(errors.ValidationFailed("Please correct the highlighted fields.", decision.FieldErrors))
	case types.DecisionQuotaExceeded:
		_ = c.Error(errors.DailyLimitReached())
	case types.DecisionSendFailed:
		_ = c.Error(errors.EmailDeliveryFailed(decision.Cause))
	default:
		_ = c.Error(errors.InternalServerError("Unexpected pipeline decision"))
	}
}
