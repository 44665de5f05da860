package queue

import (
	"github.com/google/uuid"
)

// TopicSendFinished carries one event per terminal dispatch outcome.
const TopicSendFinished = "send.finished"

// SendFinishedEvent is published after a scheduled email reaches a
// terminal outcome. The side-effect worker consumes it to send tenant
// notifications and mirror sent mail into the sender's mailbox.
type SendFinishedEvent struct {
	ScheduledEmailID uuid.UUID `json:"scheduled_email_id"`
	EmailSendID      uuid.UUID `json:"email_send_id"`
	CampaignID       uuid.UUID `json:"campaign_id"`
	SenderAccountID  uuid.UUID `json:"sender_account_id"`
	Status           string    `json:"status"` // sent or failed
}
