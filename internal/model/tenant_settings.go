// internal/model/tenant_settings.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Defaults applied when a tenant has no settings row.
const (
	DefaultTimezone      = "UTC"
	DefaultSendTimeStart = "08:00"
	DefaultSendTimeEnd   = "18:00"
)

// TenantSettings is per-user configuration consumed by the dispatcher:
// the sending window, fallback merge-tag values, and the optional
// signature/disclaimer blocks appended to every outgoing email.
type TenantSettings struct {
	UserID           uuid.UUID         `db:"user_id" json:"user_id"`
	Timezone         string            `db:"timezone" json:"timezone"`
	SendTimeStart    string            `db:"send_time_start" json:"send_time_start"` // "HH:MM"
	SendTimeEnd      string            `db:"send_time_end" json:"send_time_end"`     // "HH:MM"
	FallbackMergeTags map[string]string `db:"fallback_merge_tags" json:"fallback_merge_tags,omitempty"`
	DefaultSignature string            `db:"default_signature" json:"default_signature"`
	LegalDisclaimer  string            `db:"legal_disclaimer" json:"legal_disclaimer"`
	NotifyOnSend     bool              `db:"notify_on_send" json:"notify_on_send"`
	NotifyEmail      string            `db:"notify_email" json:"notify_email"`
}

// DefaultTenantSettings returns the settings used when no row exists
// for the campaign owner.
func DefaultTenantSettings(userID uuid.UUID) *TenantSettings {
	return &TenantSettings{
		UserID:        userID,
		Timezone:      DefaultTimezone,
		SendTimeStart: DefaultSendTimeStart,
		SendTimeEnd:   DefaultSendTimeEnd,
	}
}

// Location resolves the tenant timezone, falling back to UTC when the
// configured name does not load.
func (s *TenantSettings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil || s.Timezone == "" {
		return time.UTC
	}
	return loc
}
