// internal/model/email_send.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// EmailSend statuses: pending while the provider call is in flight,
// then sent or failed.
const (
	EmailSendStatusPending = "pending"
	EmailSendStatusSent    = "sent"
	EmailSendStatusFailed  = "failed"
)

// EmailSend records one concrete delivery attempt. The dispatcher
// creates it immediately before calling the provider and finalizes it
// immediately after, so pending rows also count against sender quota.
type EmailSend struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	CampaignID        uuid.UUID  `db:"campaign_id" json:"campaign_id"`
	ContactID         uuid.UUID  `db:"contact_id" json:"contact_id"`
	SequenceStepID    uuid.UUID  `db:"sequence_step_id" json:"sequence_step_id"`
	SenderAccountID   uuid.UUID  `db:"sender_account_id" json:"sender_account_id"`
	Status            string     `db:"status" json:"status"`
	Subject           string     `db:"subject" json:"subject"`
	Body              string     `db:"body" json:"body"`
	ProviderMessageID string     `db:"provider_message_id" json:"provider_message_id,omitempty"`
	ErrorMessage      string     `db:"error_message" json:"error_message,omitempty"`
	SentAt            *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	OpenedAt          *time.Time `db:"opened_at" json:"opened_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}
