package mailer

import "context"

// Email is a fully-composed message ready for delivery.
type Email struct {
	From    string
	To      string
	Subject string
	HTML    string
	ReplyTo string
	Headers map[string]string
}

// Sender is the transactional mail provider interface. Send returns the
// provider's message id on success. Implementations must be safe for
// sequential reuse across dispatch runs.
type Sender interface {
	Send(ctx context.Context, email *Email) (string, error)
}
