// internal/model/contact.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Contact is a campaign recipient. Well-known fields live in their own
// columns; anything else the tenant uploaded lands in CustomFields.
// Once RepliedAt is set, every remaining scheduled email for this
// contact in the campaign must be cancelled, never sent.
type Contact struct {
	ID           uuid.UUID         `db:"id" json:"id"`
	CampaignID   uuid.UUID         `db:"campaign_id" json:"campaign_id"`
	Email        string            `db:"email" json:"email"`
	FirstName    string            `db:"first_name" json:"first_name"`
	LastName     string            `db:"last_name" json:"last_name"`
	Company      string            `db:"company" json:"company"`
	Title        string            `db:"title" json:"title"`
	CustomFields map[string]string `db:"custom_fields" json:"custom_fields,omitempty"`
	RepliedAt    *time.Time        `db:"replied_at" json:"replied_at,omitempty"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
}

// Fields builds the canonical merge-tag lookup for this contact.
// Keys are normalized (lowercase, spaces and underscores stripped) so
// "First Name", "first_name" and "firstName" all resolve the same.
// Well-known columns are added first, custom fields may override them.
func (c *Contact) Fields() map[string]string {
	fields := map[string]string{
		NormalizeFieldKey("email"):      c.Email,
		NormalizeFieldKey("first_name"): c.FirstName,
		NormalizeFieldKey("last_name"):  c.LastName,
		NormalizeFieldKey("company"):    c.Company,
		NormalizeFieldKey("title"):      c.Title,
	}
	for k, v := range c.CustomFields {
		if strings.TrimSpace(v) == "" {
			continue
		}
		fields[NormalizeFieldKey(k)] = v
	}
	return fields
}

// NormalizeFieldKey lowercases a merge-tag key and strips spaces,
// underscores and hyphens.
func NormalizeFieldKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, key)
}
