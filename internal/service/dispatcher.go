// internal/service/dispatcher.go
package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/pitchkit/outreach-backend/internal/errors"
	"github.com/pitchkit/outreach-backend/internal/mailer"
	"github.com/pitchkit/outreach-backend/internal/model"
	"github.com/pitchkit/outreach-backend/internal/queue"
	"github.com/pitchkit/outreach-backend/internal/repository"
)

// Dispatcher is the scheduled-email dispatch engine. One Run processes
// one batch of due rows strictly sequentially: sequential processing is
// what makes the quota guard's same-run visibility correct without
// locking. Concurrent invocations are safe because each row is claimed
// with a conditional update before any send work happens.
type Dispatcher struct {
	Scheduled repository.ScheduledEmailRepositoryInterface
	Sends     repository.EmailSendRepositoryInterface
	Campaigns repository.CampaignRepositoryInterface
	Contacts  repository.ContactRepositoryInterface
	Steps     repository.SequenceStepRepositoryInterface
	Senders   repository.SenderAccountRepositoryInterface
	Settings  repository.SettingsRepositoryInterface

	Reconciler *StatusReconciler
	Quota      *QuotaGuard
	Composer   *Composer
	Mailer     mailer.Sender
	Events     queue.Publisher // optional; publish failures are logged only

	BatchSize   int
	MaxAttempts int
}

// RunSummary reports one dispatch run. Total is the number of due rows
// considered; Processed counts sends, Failed counts terminal failures.
// Deferred, skipped and cancelled rows appear in neither counter.
type RunSummary struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}

type rowOutcome int

const (
	outcomeDeferred rowOutcome = iota // no state change, retried next run
	outcomeSent
	outcomeFailed
	outcomeCancelled
)

// Run executes one batch. A failure to query due rows is batch-fatal
// and propagates; every per-row failure is recorded on the row and
// swallowed so one bad row cannot abort the batch.
func (d *Dispatcher) Run(ctx context.Context, now time.Time) (RunSummary, error) {
	batchSize := d.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	due, err := d.Scheduled.ListDue(now, batchSize)
	if err != nil {
		return RunSummary{}, fmt.Errorf("query due scheduled emails: %w", err)
	}

	summary := RunSummary{Total: len(due)}
	if len(due) == 0 {
		return summary, nil
	}

	log.Printf("[dispatcher] processing %d due emails", len(due))

	for _, row := range due {
		switch d.processRow(ctx, row, now) {
		case outcomeSent:
			summary.Processed++
		case outcomeFailed:
			summary.Failed++
		}
	}

	log.Printf("[dispatcher] run complete: processed=%d failed=%d total=%d",
		summary.Processed, summary.Failed, summary.Total)
	return summary, nil
}

func (d *Dispatcher) processRow(ctx context.Context, row *model.ScheduledEmail, now time.Time) rowOutcome {
	// Resolve the four relations. Any missing one is fatal for this row.
	campaign, err := d.Campaigns.GetByID(row.CampaignID)
	if err != nil {
		return d.relationError(row, err)
	}
	contact, err := d.Contacts.GetByID(row.ContactID)
	if err != nil {
		return d.relationError(row, err)
	}
	step, err := d.Steps.GetByID(row.SequenceStepID)
	if err != nil {
		return d.relationError(row, err)
	}
	sender, err := d.Senders.GetByID(row.SenderAccountID)
	if err != nil {
		return d.relationError(row, err)
	}

	// Paused campaigns defer without touching the row.
	if campaign.Status == model.CampaignStatusPaused {
		return outcomeDeferred
	}

	// A reply cancels every remaining follow-up for the contact.
	if contact.RepliedAt != nil {
		if err := d.Reconciler.Cancelled(row.ID, "contact replied"); err != nil {
			log.Printf("[dispatcher] cancel %s: %v", row.ID, err)
			return outcomeDeferred
		}
		return outcomeCancelled
	}

	settings, err := d.Settings.GetByUserID(campaign.UserID)
	if err != nil {
		log.Printf("[dispatcher] load settings for %s: %v", campaign.UserID, err)
		return outcomeDeferred
	}
	if settings == nil {
		settings = model.DefaultTenantSettings(campaign.UserID)
	}

	// Exact-scheduled steps bypass the window: the user picked the instant.
	if !step.ExactSchedule() && !WithinSendWindow(now, settings) {
		return outcomeDeferred
	}

	remaining, err := d.Quota.Remaining(sender, settings, now)
	if err != nil {
		log.Printf("[dispatcher] quota check for %s: %v", sender.Email, err)
		return outcomeDeferred
	}
	if remaining <= 0 {
		log.Printf("[dispatcher] daily limit reached for %s, deferring %s", sender.Email, row.ID)
		return outcomeDeferred
	}

	// Claim the row. A miss means another invocation owns it.
	claimed, err := d.Scheduled.Claim(row.ID)
	if err != nil {
		log.Printf("[dispatcher] claim %s: %v", row.ID, err)
		return outcomeDeferred
	}
	if !claimed {
		return outcomeDeferred
	}
	row.Attempts++

	fields := contact.Fields()
	fallbacks := NormalizeFallbacks(settings.FallbackMergeTags)

	subject := Personalize(step.Subject, fields, fallbacks)
	body := Personalize(step.Body, fields, fallbacks)

	// Mail with leftover {{...}} tags must never reach a recipient.
	if unresolved := append(subject.Unresolved, body.Unresolved...); len(unresolved) > 0 {
		return d.failRow(row, fmt.Errorf("unresolved merge tags: %s", strings.Join(unresolved, ", ")))
	}

	send := &model.EmailSend{
		CampaignID:      row.CampaignID,
		ContactID:       row.ContactID,
		SequenceStepID:  row.SequenceStepID,
		SenderAccountID: row.SenderAccountID,
		Subject:         subject.Text,
		Body:            body.Text,
	}
	if err := d.Sends.Create(send); err != nil {
		return d.failRow(row, fmt.Errorf("create send attempt: %w", err))
	}

	html := d.Composer.Compose(body.Text, settings, send.ID)

	providerID, sendErr := d.Mailer.Send(ctx, &mailer.Email{
		From:    sender.From(),
		To:      contact.Email,
		Subject: subject.Text,
		HTML:    html,
	})
	if sendErr != nil {
		terminal, recErr := d.Reconciler.ProviderFailed(row.ID, send.ID, row.Attempts, d.maxAttempts(), sendErr.Error())
		if recErr != nil {
			log.Printf("[dispatcher] reconcile failure for %s: %v", row.ID, recErr)
		}
		d.publishFinished(row, send.ID, model.EmailSendStatusFailed)
		if !terminal {
			return outcomeDeferred
		}
		return outcomeFailed
	}

	if err := d.Reconciler.Sent(row.ID, send.ID, providerID, now); err != nil {
		log.Printf("[dispatcher] reconcile success for %s: %v", row.ID, err)
	}
	d.publishFinished(row, send.ID, model.EmailSendStatusSent)
	return outcomeSent
}

// relationError separates a genuinely missing relation (fatal for the
// row, never retried) from a transient read error (deferred).
func (d *Dispatcher) relationError(row *model.ScheduledEmail, err error) rowOutcome {
	if appErrors.IsNotFound(err) {
		return d.failRow(row, err)
	}
	log.Printf("[dispatcher] resolve relations for %s: %v", row.ID, err)
	return outcomeDeferred
}

// failRow records a non-retryable failure and keeps the batch going.
func (d *Dispatcher) failRow(row *model.ScheduledEmail, cause error) rowOutcome {
	if err := d.Reconciler.Failed(row.ID, cause.Error()); err != nil {
		log.Printf("[dispatcher] mark failed %s: %v", row.ID, err)
	}
	return outcomeFailed
}

// publishFinished emits the side-effect event. Best effort: a broker
// outage must never change a recorded send outcome.
func (d *Dispatcher) publishFinished(row *model.ScheduledEmail, sendID uuid.UUID, status string) {
	if d.Events == nil {
		return
	}
	event := queue.SendFinishedEvent{
		ScheduledEmailID: row.ID,
		EmailSendID:      sendID,
		CampaignID:       row.CampaignID,
		SenderAccountID:  row.SenderAccountID,
		Status:           status,
	}
	if err := d.Events.Publish(queue.TopicSendFinished, event); err != nil {
		log.Printf("[dispatcher] publish %s event for %s: %v", status, row.ID, err)
	}
}

func (d *Dispatcher) maxAttempts() int {
	if d.MaxAttempts <= 0 {
		return 3
	}
	return d.MaxAttempts
}
