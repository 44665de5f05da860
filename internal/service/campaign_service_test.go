package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/pitchkit/outreach-backend/internal/errors"
	"github.com/pitchkit/outreach-backend/internal/model"
)

func TestListCampaignsPagination(t *testing.T) {
	repo := &fakeCampaignRepo{
		list: []*model.Campaign{
			{ID: uuid.New(), Name: "one", Status: model.CampaignStatusActive},
			{ID: uuid.New(), Name: "two", Status: model.CampaignStatusActive},
		},
		total: 45,
	}
	svc := &CampaignService{CampaignRepo: repo}

	campaigns, pagination, err := svc.ListCampaigns(2, 20, "active")
	require.NoError(t, err)

	assert.Len(t, campaigns, 2)
	assert.Equal(t, 20, repo.lastOffset)
	assert.Equal(t, 20, repo.lastLimit)
	assert.Equal(t, map[string]int{
		"page":        2,
		"page_size":   20,
		"total_count": 45,
		"total_pages": 3,
	}, pagination)
}

func TestListCampaignsClampsInputs(t *testing.T) {
	repo := &fakeCampaignRepo{}
	svc := &CampaignService{CampaignRepo: repo}

	_, pagination, err := svc.ListCampaigns(0, 1000, "")
	require.NoError(t, err)

	assert.Equal(t, 1, pagination["page"])
	assert.Equal(t, 100, pagination["page_size"])
	assert.Equal(t, 0, repo.lastOffset)
}

func TestGetCampaignDetails(t *testing.T) {
	id := uuid.New()
	repo := &fakeCampaignRepo{
		campaigns: map[uuid.UUID]*model.Campaign{
			id: {ID: id, Name: "Q3 outreach", Status: model.CampaignStatusActive, CreatedAt: time.Now()},
		},
		stats: map[string]int{"sent": 5, "failed": 2},
	}
	svc := &CampaignService{CampaignRepo: repo}

	details, err := svc.GetCampaignDetails(id)
	require.NoError(t, err)

	assert.Equal(t, "Q3 outreach", details.Name)
	assert.Equal(t, 5, details.Stats["sent"])
	assert.Equal(t, 2, details.Stats["failed"])
	assert.Equal(t, 7, details.Stats["total"])
}

func TestGetCampaignDetailsNotFound(t *testing.T) {
	svc := &CampaignService{CampaignRepo: &fakeCampaignRepo{campaigns: map[uuid.UUID]*model.Campaign{}}}

	_, err := svc.GetCampaignDetails(uuid.New())
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
}

func TestListScheduledEmailsDefaults(t *testing.T) {
	repo := &fakeScheduledRepo{}
	svc := &CampaignService{ScheduledRepo: repo}

	_, err := svc.ListScheduledEmails("", 0)
	require.NoError(t, err)

	assert.Equal(t, model.ScheduledEmailStatusFailed, repo.lastStatusQuery)
	assert.Equal(t, 100, repo.lastLimit)

	_, err = svc.ListScheduledEmails("cancelled", 50)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", repo.lastStatusQuery)
	assert.Equal(t, 50, repo.lastLimit)
}

func TestRetryEmail(t *testing.T) {
	failed := &model.ScheduledEmail{
		ID:           uuid.New(),
		Status:       model.ScheduledEmailStatusFailed,
		Attempts:     3,
		ErrorMessage: "550 mailbox unavailable",
	}
	repo := &fakeScheduledRepo{rows: []*model.ScheduledEmail{failed}}
	svc := &CampaignService{ScheduledRepo: repo}

	require.NoError(t, svc.RetryEmail(failed.ID))
	assert.Equal(t, model.ScheduledEmailStatusScheduled, failed.Status)
	assert.Equal(t, 0, failed.Attempts)
	assert.Empty(t, failed.ErrorMessage)

	// Only failed rows can be retried.
	err := svc.RetryEmail(uuid.New())
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
}
