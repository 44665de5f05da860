package repository

import (
	"database/sql"

	"github.com/google/uuid"

	appErrors "github.com/pitchkit/outreach-backend/internal/errors"
	"github.com/pitchkit/outreach-backend/internal/model"
)

type SequenceStepRepositoryInterface interface {
	GetByID(id uuid.UUID) (*model.SequenceStep, error)
}

type SequenceStepRepository struct {
	DB *sql.DB
}

func (r *SequenceStepRepository) GetByID(id uuid.UUID) (*model.SequenceStep, error) {
	query := `
        SELECT id, campaign_id, step_number, subject, body, delay_days,
               scheduled_date, scheduled_time
        FROM sequence_steps
        WHERE id = $1
    `
	var s model.SequenceStep
	err := r.DB.QueryRow(query, id).Scan(
		&s.ID, &s.CampaignID, &s.StepNumber, &s.Subject, &s.Body,
		&s.DelayDays, &s.ScheduledDate, &s.ScheduledTime,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewSequenceStepNotFound(id)
		}
		return nil, err
	}
	return &s, nil
}

var _ SequenceStepRepositoryInterface = (*SequenceStepRepository)(nil)
