package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/pitchkit/outreach-backend/internal/errors"
	"github.com/pitchkit/outreach-backend/internal/model"
)

type ScheduledEmailRepositoryInterface interface {
	ListDue(now time.Time, limit int) ([]*model.ScheduledEmail, error)
	ListByStatus(status string, limit int) ([]*model.ScheduledEmail, error)
	GetByID(id uuid.UUID) (*model.ScheduledEmail, error)

	// Claim atomically moves a row scheduled -> processing and bumps
	// attempts. Returns false when another invocation got there first.
	Claim(id uuid.UUID) (bool, error)

	MarkSent(id uuid.UUID) error
	MarkFailed(id uuid.UUID, errorMessage string) error
	MarkCancelled(id uuid.UUID, reason string) error

	// Requeue returns a processing row to scheduled, recording the error
	// that caused the retry. Attempts are kept.
	Requeue(id uuid.UUID, errorMessage string) error

	// Retry resets a failed row for reprocessing (operator action).
	Retry(id uuid.UUID) error
	Delete(id uuid.UUID) error

	// ReleaseStuck requeues processing rows untouched for longer than
	// olderThan, returning how many were released.
	ReleaseStuck(olderThan time.Duration) (int64, error)
}

type ScheduledEmailRepository struct {
	DB *sql.DB
}

const scheduledEmailColumns = `id, campaign_id, contact_id, sequence_step_id, sender_account_id,
        scheduled_for, status, attempts, COALESCE(error_message, ''), created_at, updated_at`

func scanScheduledEmail(row interface{ Scan(...any) error }) (*model.ScheduledEmail, error) {
	var e model.ScheduledEmail
	err := row.Scan(
		&e.ID, &e.CampaignID, &e.ContactID, &e.SequenceStepID, &e.SenderAccountID,
		&e.ScheduledFor, &e.Status, &e.Attempts, &e.ErrorMessage, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ScheduledEmailRepository) ListDue(now time.Time, limit int) ([]*model.ScheduledEmail, error) {
	query := `
        SELECT ` + scheduledEmailColumns + `
        FROM scheduled_emails
        WHERE status = 'scheduled' AND scheduled_for <= $1
        ORDER BY scheduled_for ASC
        LIMIT $2
    `
	return r.list(query, now, limit)
}

func (r *ScheduledEmailRepository) ListByStatus(status string, limit int) ([]*model.ScheduledEmail, error) {
	query := `
        SELECT ` + scheduledEmailColumns + `
        FROM scheduled_emails
        WHERE status = $1
        ORDER BY scheduled_for ASC
        LIMIT $2
    `
	return r.list(query, status, limit)
}

func (r *ScheduledEmailRepository) list(query string, args ...any) ([]*model.ScheduledEmail, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := []*model.ScheduledEmail{}
	for rows.Next() {
		e, err := scanScheduledEmail(rows)
		if err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

func (r *ScheduledEmailRepository) GetByID(id uuid.UUID) (*model.ScheduledEmail, error) {
	query := `SELECT ` + scheduledEmailColumns + ` FROM scheduled_emails WHERE id=$1`
	e, err := scanScheduledEmail(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewScheduledEmailNotFound(id)
		}
		return nil, err
	}
	return e, nil
}

func (r *ScheduledEmailRepository) Claim(id uuid.UUID) (bool, error) {
	res, err := r.DB.Exec(`
        UPDATE scheduled_emails
        SET status='processing', attempts=attempts+1, updated_at=NOW()
        WHERE id=$1 AND status='scheduled'
    `, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *ScheduledEmailRepository) MarkSent(id uuid.UUID) error {
	_, err := r.DB.Exec(`
        UPDATE scheduled_emails
        SET status='sent', error_message=NULL, updated_at=NOW()
        WHERE id=$1
    `, id)
	return err
}

func (r *ScheduledEmailRepository) MarkFailed(id uuid.UUID, errorMessage string) error {
	_, err := r.DB.Exec(`
        UPDATE scheduled_emails
        SET status='failed', error_message=$1, updated_at=NOW()
        WHERE id=$2
    `, errorMessage, id)
	return err
}

func (r *ScheduledEmailRepository) MarkCancelled(id uuid.UUID, reason string) error {
	_, err := r.DB.Exec(`
        UPDATE scheduled_emails
        SET status='cancelled', error_message=$1, updated_at=NOW()
        WHERE id=$2
    `, reason, id)
	return err
}

func (r *ScheduledEmailRepository) Requeue(id uuid.UUID, errorMessage string) error {
	_, err := r.DB.Exec(`
        UPDATE scheduled_emails
        SET status='scheduled', error_message=$1, updated_at=NOW()
        WHERE id=$2
    `, errorMessage, id)
	return err
}

func (r *ScheduledEmailRepository) Retry(id uuid.UUID) error {
	res, err := r.DB.Exec(`
        UPDATE scheduled_emails
        SET status='scheduled', attempts=0, error_message=NULL, updated_at=NOW()
        WHERE id=$1 AND status='failed'
    `, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErrors.NewScheduledEmailNotFound(id)
	}
	return nil
}

func (r *ScheduledEmailRepository) Delete(id uuid.UUID) error {
	res, err := r.DB.Exec(`DELETE FROM scheduled_emails WHERE id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErrors.NewScheduledEmailNotFound(id)
	}
	return nil
}

func (r *ScheduledEmailRepository) ReleaseStuck(olderThan time.Duration) (int64, error) {
	res, err := r.DB.Exec(`
        UPDATE scheduled_emails
        SET status='scheduled', updated_at=NOW()
        WHERE status='processing' AND updated_at < NOW() - ($1 * INTERVAL '1 second')
    `, int64(olderThan.Seconds()))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

var _ ScheduledEmailRepositoryInterface = (*ScheduledEmailRepository)(nil)
