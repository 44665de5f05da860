// internal/model/sender_account.go
package model

import (
	"github.com/google/uuid"
)

// SenderAccount is an outbound identity. DailyLimit caps how many
// delivery attempts the account may make per tenant-timezone calendar day.
// AccessToken, when present, lets the side-effect worker mirror sent
// mail into the account's provider mailbox.
type SenderAccount struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Email       string    `db:"email" json:"email"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Provider    string    `db:"provider" json:"provider"`
	DailyLimit  int       `db:"daily_limit" json:"daily_limit"`
	AccessToken string    `db:"access_token" json:"-"`
}

// From formats the RFC 5322 sender address.
func (a *SenderAccount) From() string {
	if a.DisplayName == "" {
		return a.Email
	}
	return a.DisplayName + " <" + a.Email + ">"
}
