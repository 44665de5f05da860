// cmd/worker/main.go
//
// Side-effect worker: consumes send.finished events and performs the
// best-effort follow-ups the dispatcher must not block on — tenant
// delivery notifications and mirroring sent mail into the sender's
// Gmail Sent folder. Failures here are logged and acked; they never
// change a recorded send outcome.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/streadway/amqp"

	"github.com/pitchkit/outreach-backend/internal/config"
	"github.com/pitchkit/outreach-backend/internal/db"
	"github.com/pitchkit/outreach-backend/internal/gmail"
	"github.com/pitchkit/outreach-backend/internal/mailer"
	"github.com/pitchkit/outreach-backend/internal/mailer/resend"
	"github.com/pitchkit/outreach-backend/internal/model"
	"github.com/pitchkit/outreach-backend/internal/queue"
	"github.com/pitchkit/outreach-backend/internal/repository"
)

type sideEffects struct {
	sends     repository.EmailSendRepositoryInterface
	contacts  repository.ContactRepositoryInterface
	campaigns repository.CampaignRepositoryInterface
	senders   repository.SenderAccountRepositoryInterface
	settings  repository.SettingsRepositoryInterface

	mailer mailer.Sender
	gmail  *gmail.Client
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}
	cfg := config.Load()

	conn, err := db.Connect(cfg.DSN())
	if err != nil {
		log.Fatal("failed to connect to DB:", err)
	}
	defer conn.Close()

	fx := &sideEffects{
		sends:     &repository.EmailSendRepository{DB: conn},
		contacts:  &repository.ContactRepository{DB: conn},
		campaigns: &repository.CampaignRepository{DB: conn},
		senders:   &repository.SenderAccountRepository{DB: conn},
		settings:  &repository.SettingsRepository{DB: conn},
		mailer:    resend.New(cfg.ResendAPIKey),
		gmail:     gmail.NewClient(),
	}

	amqpConn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		log.Fatal("failed to connect to RabbitMQ:", err)
	}
	defer amqpConn.Close()

	ch, err := amqpConn.Channel()
	if err != nil {
		log.Fatal("failed to open a channel:", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		queue.TopicSendFinished,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		log.Fatal("failed to declare queue:", err)
	}

	msgs, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		log.Fatal("failed to register consumer:", err)
	}

	log.Println("worker running, waiting for events...")

	for d := range msgs {
		var event queue.SendFinishedEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			log.Println("invalid event:", err)
			d.Ack(false)
			continue
		}

		if err := fx.handle(context.Background(), event); err != nil {
			log.Printf("side effects for send %s: %v", event.EmailSendID, err)
		}
		// Best effort only: always ack, never requeue.
		d.Ack(false)
	}
}

func (fx *sideEffects) handle(ctx context.Context, event queue.SendFinishedEvent) error {
	if event.Status != model.EmailSendStatusSent {
		return nil
	}

	send, err := fx.sends.GetByID(event.EmailSendID)
	if err != nil {
		return err
	}
	if send == nil {
		return fmt.Errorf("email send %s not found", event.EmailSendID)
	}

	campaign, err := fx.campaigns.GetByID(event.CampaignID)
	if err != nil {
		return err
	}
	sender, err := fx.senders.GetByID(event.SenderAccountID)
	if err != nil {
		return err
	}

	settings, err := fx.settings.GetByUserID(campaign.UserID)
	if err != nil {
		return err
	}
	if settings == nil {
		settings = model.DefaultTenantSettings(campaign.UserID)
	}

	if settings.NotifyOnSend && settings.NotifyEmail != "" {
		fx.notify(ctx, settings.NotifyEmail, campaign.Name, send)
	}
	if sender.AccessToken != "" {
		fx.syncSentFolder(ctx, sender, send)
	}
	return nil
}

// notify emails the tenant that a step went out.
func (fx *sideEffects) notify(ctx context.Context, to, campaignName string, send *model.EmailSend) {
	_, err := fx.mailer.Send(ctx, &mailer.Email{
		From:    "notifications@outreach.local",
		To:      to,
		Subject: fmt.Sprintf("Email sent in campaign %q", campaignName),
		HTML: fmt.Sprintf("<p>Step email %q was delivered to contact %s.</p>",
			send.Subject, send.ContactID),
	})
	if err != nil {
		log.Println("notification email:", err)
	}
}

// syncSentFolder mirrors the message into the sender's Gmail mailbox.
func (fx *sideEffects) syncSentFolder(ctx context.Context, sender *model.SenderAccount, send *model.EmailSend) {
	contact, err := fx.contacts.GetByID(send.ContactID)
	if err != nil {
		log.Println("sent-folder sync, load contact:", err)
		return
	}

	err = fx.gmail.InsertSent(ctx, sender.AccessToken, sender.From(), contact.Email, send.Subject, send.Body)
	if err != nil {
		log.Println("sent-folder sync:", err)
	}
}
