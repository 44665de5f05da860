// internal/service/reconciler.go
package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/pitchkit/outreach-backend/internal/repository"
)

// StatusReconciler keeps the scheduled_emails intent row and the
// email_sends attempt row moving in lockstep: sent/sent, failed/failed,
// cancelled with no attempt created, deferred with no state change.
type StatusReconciler struct {
	Scheduled repository.ScheduledEmailRepositoryInterface
	Sends     repository.EmailSendRepositoryInterface
}

// Sent finalizes a successful delivery on both rows.
func (r *StatusReconciler) Sent(scheduledID, sendID uuid.UUID, providerMessageID string, at time.Time) error {
	if err := r.Sends.MarkSent(sendID, providerMessageID, at); err != nil {
		return err
	}
	return r.Scheduled.MarkSent(scheduledID)
}

// ProviderFailed records a provider rejection on the attempt row, then
// either requeues the intent row (below the attempts cap) or fails it
// terminally. Returns true when the failure is terminal.
func (r *StatusReconciler) ProviderFailed(scheduledID, sendID uuid.UUID, attempts, maxAttempts int, errorMessage string) (bool, error) {
	if err := r.Sends.MarkFailed(sendID, errorMessage); err != nil {
		return false, err
	}
	if attempts < maxAttempts {
		return false, r.Scheduled.Requeue(scheduledID, errorMessage)
	}
	return true, r.Scheduled.MarkFailed(scheduledID, errorMessage)
}

// Failed records a non-retryable failure (missing relation, unresolved
// template tags) on the intent row. No attempt row exists on this path.
func (r *StatusReconciler) Failed(scheduledID uuid.UUID, errorMessage string) error {
	return r.Scheduled.MarkFailed(scheduledID, errorMessage)
}

// Cancelled terminally excludes the row from future processing.
func (r *StatusReconciler) Cancelled(scheduledID uuid.UUID, reason string) error {
	return r.Scheduled.MarkCancelled(scheduledID, reason)
}

// ReleaseStuck requeues processing rows abandoned by a crashed run.
func (r *StatusReconciler) ReleaseStuck(olderThan time.Duration) (int64, error) {
	return r.Scheduled.ReleaseStuck(olderThan)
}
