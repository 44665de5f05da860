// internal/model/scheduled_email.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// ScheduledEmail statuses. The dispatcher owns every transition:
//
//	scheduled -> processing -> sent
//	                        -> failed      (terminal: bad relation, bad template,
//	                                        or provider rejection at the attempts cap)
//	                        -> scheduled   (retryable provider rejection below the cap)
//	scheduled -> cancelled                 (contact replied; terminal)
//
// Rows are never deleted by the dispatcher.
const (
	ScheduledEmailStatusScheduled  = "scheduled"
	ScheduledEmailStatusProcessing = "processing"
	ScheduledEmailStatusSent       = "sent"
	ScheduledEmailStatusFailed     = "failed"
	ScheduledEmailStatusCancelled  = "cancelled"
)

// ScheduledEmail is the intent to deliver one sequence step to one
// contact at a future time.
type ScheduledEmail struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	CampaignID      uuid.UUID  `db:"campaign_id" json:"campaign_id"`
	ContactID       uuid.UUID  `db:"contact_id" json:"contact_id"`
	SequenceStepID  uuid.UUID  `db:"sequence_step_id" json:"sequence_step_id"`
	SenderAccountID uuid.UUID  `db:"sender_account_id" json:"sender_account_id"`
	ScheduledFor    time.Time  `db:"scheduled_for" json:"scheduled_for"`
	Status          string     `db:"status" json:"status"`
	Attempts        int        `db:"attempts" json:"attempts"`
	ErrorMessage    string     `db:"error_message" json:"error_message,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
