// Package resend implements mailer.Sender using the Resend API.
package resend

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"github.com/pitchkit/outreach-backend/internal/mailer"
)

type Sender struct {
	client *resend.Client
}

// New creates a Resend-backed sender.
func New(apiKey string) *Sender {
	return &Sender{client: resend.NewClient(apiKey)}
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) (string, error) {
	req := &resend.SendEmailRequest{
		From:    email.From,
		To:      []string{email.To},
		Subject: email.Subject,
		Html:    email.HTML,
		ReplyTo: email.ReplyTo,
		Headers: email.Headers,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return "", fmt.Errorf("resend: failed to send email: %w", err)
	}
	return sent.Id, nil
}

var _ mailer.Sender = (*Sender)(nil)
