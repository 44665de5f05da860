package repository

import (
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	appErrors "github.com/pitchkit/outreach-backend/internal/errors"
	"github.com/pitchkit/outreach-backend/internal/model"
)

type ContactRepositoryInterface interface {
	GetByID(id uuid.UUID) (*model.Contact, error)
}

type ContactRepository struct {
	DB *sql.DB
}

// GetByID fetches a contact, decoding the custom_fields JSONB column
// into the typed map.
func (r *ContactRepository) GetByID(id uuid.UUID) (*model.Contact, error) {
	query := `
        SELECT id, campaign_id, email, first_name, last_name, company, title,
               COALESCE(custom_fields, '{}'::jsonb), replied_at, created_at
        FROM contacts
        WHERE id = $1
    `
	var c model.Contact
	var rawFields []byte
	err := r.DB.QueryRow(query, id).Scan(
		&c.ID, &c.CampaignID, &c.Email, &c.FirstName, &c.LastName,
		&c.Company, &c.Title, &rawFields, &c.RepliedAt, &c.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewContactNotFound(id)
		}
		return nil, err
	}

	if len(rawFields) > 0 {
		if err := json.Unmarshal(rawFields, &c.CustomFields); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

var _ ContactRepositoryInterface = (*ContactRepository)(nil)
