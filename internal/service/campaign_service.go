// internal/service/campaign_service.go
package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/pitchkit/outreach-backend/internal/model"
	"github.com/pitchkit/outreach-backend/internal/repository"
)

// CampaignService backs the operator-facing read surface: campaign
// listings with delivery stats and the failed-emails view with its
// retry/delete actions.
type CampaignService struct {
	CampaignRepo  repository.CampaignRepositoryInterface
	ScheduledRepo repository.ScheduledEmailRepositoryInterface
}

type CampaignDetails struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	Name      string         `json:"name"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
	Stats     map[string]int `json:"stats"`
}

// ListCampaigns fetches campaigns with pagination.
func (s *CampaignService) ListCampaigns(page, pageSize int, status string) ([]model.Campaign, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	ptrs, total, err := s.CampaignRepo.ListCampaigns(offset, pageSize, status)
	if err != nil {
		return nil, nil, err
	}

	campaigns := make([]model.Campaign, len(ptrs))
	for i, c := range ptrs {
		campaigns[i] = *c
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}

	return campaigns, pagination, nil
}

// GetCampaignDetails fetches a campaign together with its email_sends
// stats grouped by status.
func (s *CampaignService) GetCampaignDetails(id uuid.UUID) (*CampaignDetails, error) {
	campaign, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	stats, err := s.CampaignRepo.SendStats(id)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, count := range stats {
		total += count
	}
	stats["total"] = total

	return &CampaignDetails{
		ID:        campaign.ID,
		UserID:    campaign.UserID,
		Name:      campaign.Name,
		Status:    campaign.Status,
		CreatedAt: campaign.CreatedAt,
		UpdatedAt: campaign.UpdatedAt,
		Stats:     stats,
	}, nil
}

// ListScheduledEmails returns rows in the given status, newest-due first
// capped at limit. Drives the failed-emails operator view.
func (s *CampaignService) ListScheduledEmails(status string, limit int) ([]*model.ScheduledEmail, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	if status == "" {
		status = model.ScheduledEmailStatusFailed
	}
	return s.ScheduledRepo.ListByStatus(status, limit)
}

// RetryEmail resets a failed row so it competes with new due rows on
// the next dispatch run.
func (s *CampaignService) RetryEmail(id uuid.UUID) error {
	return s.ScheduledRepo.Retry(id)
}

// DeleteEmail removes a row entirely (operator action; the dispatcher
// itself never deletes).
func (s *CampaignService) DeleteEmail(id uuid.UUID) error {
	return s.ScheduledRepo.Delete(id)
}
