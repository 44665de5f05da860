package repository

import (
	"database/sql"

	"github.com/google/uuid"

	appErrors "github.com/pitchkit/outreach-backend/internal/errors"
	"github.com/pitchkit/outreach-backend/internal/model"
)

type SenderAccountRepositoryInterface interface {
	GetByID(id uuid.UUID) (*model.SenderAccount, error)
}

type SenderAccountRepository struct {
	DB *sql.DB
}

func (r *SenderAccountRepository) GetByID(id uuid.UUID) (*model.SenderAccount, error) {
	query := `
        SELECT id, user_id, email, COALESCE(display_name, ''), COALESCE(provider, ''),
               daily_limit, COALESCE(access_token, '')
        FROM sender_accounts
        WHERE id = $1
    `
	var a model.SenderAccount
	err := r.DB.QueryRow(query, id).Scan(
		&a.ID, &a.UserID, &a.Email, &a.DisplayName, &a.Provider,
		&a.DailyLimit, &a.AccessToken,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewSenderAccountNotFound(id)
		}
		return nil, err
	}
	return &a, nil
}

var _ SenderAccountRepositoryInterface = (*SenderAccountRepository)(nil)
