package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/pitchkit/outreach-backend/internal/model"
)

type EmailSendRepositoryInterface interface {
	Create(send *model.EmailSend) error
	MarkSent(id uuid.UUID, providerMessageID string, sentAt time.Time) error
	MarkFailed(id uuid.UUID, errorMessage string) error
	MarkOpened(id uuid.UUID, openedAt time.Time) error
	GetByID(id uuid.UUID) (*model.EmailSend, error)

	// CountForSenderBetween counts attempts (sent or still pending)
	// made by a sender account inside [from, to). Used by the quota
	// guard with tenant-timezone day boundaries.
	CountForSenderBetween(senderAccountID uuid.UUID, from, to time.Time) (int, error)
}

type EmailSendRepository struct {
	DB *sql.DB
}

func (r *EmailSendRepository) Create(send *model.EmailSend) error {
	if send.ID == uuid.Nil {
		send.ID = uuid.New()
	}
	if send.Status == "" {
		send.Status = model.EmailSendStatusPending
	}
	send.CreatedAt = time.Now()

	query := `
        INSERT INTO email_sends
        (id, campaign_id, contact_id, sequence_step_id, sender_account_id, status, subject, body, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	_, err := r.DB.Exec(query,
		send.ID, send.CampaignID, send.ContactID, send.SequenceStepID,
		send.SenderAccountID, send.Status, send.Subject, send.Body, send.CreatedAt,
	)
	return err
}

func (r *EmailSendRepository) MarkSent(id uuid.UUID, providerMessageID string, sentAt time.Time) error {
	_, err := r.DB.Exec(`
        UPDATE email_sends
        SET status='sent', provider_message_id=$1, sent_at=$2, error_message=NULL
        WHERE id=$3
    `, providerMessageID, sentAt, id)
	return err
}

func (r *EmailSendRepository) MarkFailed(id uuid.UUID, errorMessage string) error {
	_, err := r.DB.Exec(`
        UPDATE email_sends
        SET status='failed', error_message=$1
        WHERE id=$2
    `, errorMessage, id)
	return err
}

func (r *EmailSendRepository) MarkOpened(id uuid.UUID, openedAt time.Time) error {
	_, err := r.DB.Exec(`
        UPDATE email_sends
        SET opened_at=$1
        WHERE id=$2 AND opened_at IS NULL
    `, openedAt, id)
	return err
}

func (r *EmailSendRepository) GetByID(id uuid.UUID) (*model.EmailSend, error) {
	query := `
        SELECT id, campaign_id, contact_id, sequence_step_id, sender_account_id,
               status, subject, body, COALESCE(provider_message_id, ''),
               COALESCE(error_message, ''), sent_at, opened_at, created_at
        FROM email_sends
        WHERE id=$1
    `
	var s model.EmailSend
	err := r.DB.QueryRow(query, id).Scan(
		&s.ID, &s.CampaignID, &s.ContactID, &s.SequenceStepID, &s.SenderAccountID,
		&s.Status, &s.Subject, &s.Body, &s.ProviderMessageID,
		&s.ErrorMessage, &s.SentAt, &s.OpenedAt, &s.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *EmailSendRepository) CountForSenderBetween(senderAccountID uuid.UUID, from, to time.Time) (int, error) {
	var count int
	err := r.DB.QueryRow(`
        SELECT COUNT(*)
        FROM email_sends
        WHERE sender_account_id=$1
          AND status IN ('sent', 'pending')
          AND created_at >= $2 AND created_at < $3
    `, senderAccountID, from, to).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

var _ EmailSendRepositoryInterface = (*EmailSendRepository)(nil)
