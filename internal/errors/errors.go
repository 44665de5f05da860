// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// NotFoundError reports a missing row for a known entity kind. A missing
// relation while dispatching a scheduled email is fatal for that row.
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// Constructors for the entities the dispatcher resolves per row.

func NewCampaignNotFound(id uuid.UUID) error {
	return &NotFoundError{Kind: "campaign", ID: id}
}

func NewContactNotFound(id uuid.UUID) error {
	return &NotFoundError{Kind: "contact", ID: id}
}

func NewSequenceStepNotFound(id uuid.UUID) error {
	return &NotFoundError{Kind: "sequence step", ID: id}
}

func NewSenderAccountNotFound(id uuid.UUID) error {
	return &NotFoundError{Kind: "sender account", ID: id}
}

func NewScheduledEmailNotFound(id uuid.UUID) error {
	return &NotFoundError{Kind: "scheduled email", ID: id}
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
