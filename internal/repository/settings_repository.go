package repository

import (
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/pitchkit/outreach-backend/internal/model"
)

type SettingsRepositoryInterface interface {
	// GetByUserID returns (nil, nil) when the tenant has no settings
	// row; callers apply defaults.
	GetByUserID(userID uuid.UUID) (*model.TenantSettings, error)
}

type SettingsRepository struct {
	DB *sql.DB
}

func (r *SettingsRepository) GetByUserID(userID uuid.UUID) (*model.TenantSettings, error) {
	query := `
        SELECT user_id, timezone, send_time_start, send_time_end,
               COALESCE(fallback_merge_tags, '{}'::jsonb),
               COALESCE(default_signature, ''), COALESCE(legal_disclaimer, ''),
               notify_on_send, COALESCE(notify_email, '')
        FROM tenant_settings
        WHERE user_id = $1
    `
	var s model.TenantSettings
	var rawTags []byte
	err := r.DB.QueryRow(query, userID).Scan(
		&s.UserID, &s.Timezone, &s.SendTimeStart, &s.SendTimeEnd,
		&rawTags, &s.DefaultSignature, &s.LegalDisclaimer,
		&s.NotifyOnSend, &s.NotifyEmail,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if len(rawTags) > 0 {
		if err := json.Unmarshal(rawTags, &s.FallbackMergeTags); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

var _ SettingsRepositoryInterface = (*SettingsRepository)(nil)
