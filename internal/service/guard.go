// internal/service/guard.go
package service

import (
	"time"

	"github.com/pitchkit/outreach-backend/internal/model"
	"github.com/pitchkit/outreach-backend/internal/repository"
)

// WithinSendWindow reports whether now falls inside the tenant's
// sending window. The comparison happens on zero-padded "HH:MM" strings
// in the tenant timezone; the window is inclusive at the start and
// exclusive at the end. Exact-scheduled sends bypass this check.
func WithinSendWindow(now time.Time, settings *model.TenantSettings) bool {
	start := settings.SendTimeStart
	if start == "" {
		start = model.DefaultSendTimeStart
	}
	end := settings.SendTimeEnd
	if end == "" {
		end = model.DefaultSendTimeEnd
	}

	hm := now.In(settings.Location()).Format("15:04")
	return hm >= start && hm < end
}

// QuotaGuard computes remaining daily capacity for a sender account.
// The count is taken fresh on every call because earlier rows in the
// same dispatch run create pending attempts that must count here.
type QuotaGuard struct {
	Sends repository.EmailSendRepositoryInterface
}

// Remaining returns daily_limit minus the attempts (sent or pending)
// recorded inside the tenant-timezone calendar day containing now.
func (g *QuotaGuard) Remaining(sender *model.SenderAccount, settings *model.TenantSettings, now time.Time) (int, error) {
	loc := settings.Location()
	local := now.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	used, err := g.Sends.CountForSenderBetween(sender.ID, dayStart, dayEnd)
	if err != nil {
		return 0, err
	}
	return sender.DailyLimit - used, nil
}
