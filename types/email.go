package types

import "context"

// EmailSender is the outbound delivery capability the pipeline depends on.
// Implementations (Resend API, SMTP) are swapped by configuration.
type EmailSender interface {
	Send(ctx context.Context, data EmailData) error
}

type EmailData struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}
