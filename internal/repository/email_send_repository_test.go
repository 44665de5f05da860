package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchkit/outreach-backend/internal/model"
)

func newSendRepo(t *testing.T) (*EmailSendRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &EmailSendRepository{DB: db}, mock
}

func TestEmailSendCreateAssignsDefaults(t *testing.T) {
	repo, mock := newSendRepo(t)

	send := &model.EmailSend{
		CampaignID:      uuid.New(),
		ContactID:       uuid.New(),
		SequenceStepID:  uuid.New(),
		SenderAccountID: uuid.New(),
		Subject:         "Quick question",
		Body:            "Hi Ana",
	}

	mock.ExpectExec("INSERT INTO email_sends").
		WithArgs(sqlmock.AnyArg(), send.CampaignID, send.ContactID, send.SequenceStepID,
			send.SenderAccountID, model.EmailSendStatusPending, send.Subject, send.Body, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(send))
	assert.NotEqual(t, uuid.Nil, send.ID)
	assert.Equal(t, model.EmailSendStatusPending, send.Status)
	assert.False(t, send.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailSendMarkSent(t *testing.T) {
	repo, mock := newSendRepo(t)
	id := uuid.New()
	sentAt := time.Now()

	mock.ExpectExec("UPDATE email_sends").
		WithArgs("provider-msg-1", sentAt, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkSent(id, "provider-msg-1", sentAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailSendCountForSenderBetween(t *testing.T) {
	repo, mock := newSendRepo(t)
	senderID := uuid.New()
	from := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(senderID, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountForSenderBetween(senderID, from, to)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailSendGetByIDMissing(t *testing.T) {
	repo, mock := newSendRepo(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM email_sends").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	send, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Nil(t, send)
	assert.NoError(t, mock.ExpectationsWereMet())
}
