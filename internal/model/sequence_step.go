// internal/model/sequence_step.go
package model

import (
	"github.com/google/uuid"
)

// SequenceStep is one email in a campaign's multi-step sequence.
// A step with both ScheduledDate and ScheduledTime set was pinned to an
// exact instant by the user; such sends bypass the sending-window check.
type SequenceStep struct {
	ID            uuid.UUID `db:"id" json:"id"`
	CampaignID    uuid.UUID `db:"campaign_id" json:"campaign_id"`
	StepNumber    int       `db:"step_number" json:"step_number"`
	Subject       string    `db:"subject" json:"subject"`
	Body          string    `db:"body" json:"body"`
	DelayDays     int       `db:"delay_days" json:"delay_days"`
	ScheduledDate *string   `db:"scheduled_date" json:"scheduled_date,omitempty"` // "2006-01-02"
	ScheduledTime *string   `db:"scheduled_time" json:"scheduled_time,omitempty"` // "15:04"
}

// ExactSchedule reports whether the step was pinned to a specific
// date and time rather than scheduled by delay.
func (s *SequenceStep) ExactSchedule() bool {
	return s.ScheduledDate != nil && *s.ScheduledDate != "" &&
		s.ScheduledTime != nil && *s.ScheduledTime != ""
}
