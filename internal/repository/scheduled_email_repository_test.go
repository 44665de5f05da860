package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/pitchkit/outreach-backend/internal/errors"
)

func newScheduledRepo(t *testing.T) (*ScheduledEmailRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &ScheduledEmailRepository{DB: db}, mock
}

func scheduledColumns() []string {
	return []string{
		"id", "campaign_id", "contact_id", "sequence_step_id", "sender_account_id",
		"scheduled_for", "status", "attempts", "error_message", "created_at", "updated_at",
	}
}

func TestScheduledEmailListDue(t *testing.T) {
	repo, mock := newScheduledRepo(t)

	now := time.Now()
	id := uuid.New()
	rows := sqlmock.NewRows(scheduledColumns()).
		AddRow(id, uuid.New(), uuid.New(), uuid.New(), uuid.New(),
			now.Add(-time.Minute), "scheduled", 0, "", now, nil)

	mock.ExpectQuery("SELECT (.+) FROM scheduled_emails").
		WithArgs(now, 50).
		WillReturnRows(rows)

	due, err := repo.ListDue(now, 50)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, id, due[0].ID)
	assert.Equal(t, "scheduled", due[0].Status)
	assert.Nil(t, due[0].UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledEmailClaim(t *testing.T) {
	repo, mock := newScheduledRepo(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE scheduled_emails").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	claimed, err := repo.Claim(id)
	require.NoError(t, err)
	assert.True(t, claimed)

	// A second claimer matches zero rows and loses.
	mock.ExpectExec("UPDATE scheduled_emails").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	claimed, err = repo.Claim(id)
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledEmailRetry(t *testing.T) {
	repo, mock := newScheduledRepo(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE scheduled_emails").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Retry(id))

	// Retrying a row that is not in failed status matches nothing.
	mock.ExpectExec("UPDATE scheduled_emails").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Retry(id)
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledEmailGetByIDNotFound(t *testing.T) {
	repo, mock := newScheduledRepo(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM scheduled_emails").
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(id)
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledEmailReleaseStuck(t *testing.T) {
	repo, mock := newScheduledRepo(t)

	mock.ExpectExec("UPDATE scheduled_emails").
		WithArgs(int64(900)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	released, err := repo.ReleaseStuck(15 * time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(3), released)
	assert.NoError(t, mock.ExpectationsWereMet())
}
