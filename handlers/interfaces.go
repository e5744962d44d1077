package handlers

import (
	"context"

	"github.com/ReviveTech/revive-backend/types"
)

// ContactPipeline is the submission-processing capability the contact
// handler depends on. Implemented by services.ContactService.
type ContactPipeline interface {
	// IssueToken mints a timing token for a fresh form render.
	IssueToken() (string, error)
	// Submit runs one submission through the decision pipeline.
	Submit(ctx context.Context, sub *types.Submission) types.Decision
}
