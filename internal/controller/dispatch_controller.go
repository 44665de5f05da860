// internal/controller/dispatch_controller.go
package controller

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/pitchkit/outreach-backend/internal/model"
	"github.com/pitchkit/outreach-backend/internal/repository"
	"github.com/pitchkit/outreach-backend/internal/service"
)

// DispatchRunner is what the trigger needs from the dispatch engine.
type DispatchRunner interface {
	Run(ctx context.Context, now time.Time) (service.RunSummary, error)
}

// DispatchController exposes the dispatch trigger surface. Cron hits it
// through the same code path the scheduler uses; operators hit it with
// is_manual for the extra diagnostics.
type DispatchController struct {
	Dispatcher    DispatchRunner
	ScheduledRepo repository.ScheduledEmailRepositoryInterface
}

// Run executes one dispatch batch. Responds with the run summary, plus
// a diagnostic listing of all scheduled rows when a manual trigger
// found nothing due.
func (c *DispatchController) Run(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IsManual bool `json:"is_manual"`
	}
	if r.Body != nil {
		// The trigger may arrive with an empty body; that is fine.
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	summary, err := c.Dispatcher.Run(r.Context(), time.Now())
	if err != nil {
		log.Println("[dispatch] batch failed:", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	resp := map[string]interface{}{
		"processed": summary.Processed,
		"failed":    summary.Failed,
		"total":     summary.Total,
	}

	if body.IsManual && summary.Total == 0 {
		scheduled, err := c.ScheduledRepo.ListByStatus(model.ScheduledEmailStatusScheduled, 100)
		if err != nil {
			log.Println("[dispatch] diagnostic listing failed:", err)
		} else {
			resp["scheduled"] = scheduled
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
