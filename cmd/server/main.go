// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/pitchkit/outreach-backend/internal/config"
	"github.com/pitchkit/outreach-backend/internal/controller"
	"github.com/pitchkit/outreach-backend/internal/db"
	"github.com/pitchkit/outreach-backend/internal/mailer/resend"
	"github.com/pitchkit/outreach-backend/internal/queue"
	"github.com/pitchkit/outreach-backend/internal/repository"
	"github.com/pitchkit/outreach-backend/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}
	cfg := config.Load()

	conn, err := db.Connect(cfg.DSN())
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	defer conn.Close()

	scheduledRepo := &repository.ScheduledEmailRepository{DB: conn}
	sendRepo := &repository.EmailSendRepository{DB: conn}
	campaignRepo := &repository.CampaignRepository{DB: conn}
	contactRepo := &repository.ContactRepository{DB: conn}
	stepRepo := &repository.SequenceStepRepository{DB: conn}
	senderRepo := &repository.SenderAccountRepository{DB: conn}
	settingsRepo := &repository.SettingsRepository{DB: conn}

	// Side-effect events are best-effort: a missing broker downgrades
	// them instead of blocking dispatch.
	var events queue.Publisher
	if publisher, err := queue.NewAMQPPublisher(cfg.AMQPURL); err != nil {
		log.Println("AMQP unavailable, side-effect events disabled:", err)
	} else {
		events = publisher
		defer publisher.Close()
	}

	reconciler := &service.StatusReconciler{Scheduled: scheduledRepo, Sends: sendRepo}

	dispatcher := &service.Dispatcher{
		Scheduled:   scheduledRepo,
		Sends:       sendRepo,
		Campaigns:   campaignRepo,
		Contacts:    contactRepo,
		Steps:       stepRepo,
		Senders:     senderRepo,
		Settings:    settingsRepo,
		Reconciler:  reconciler,
		Quota:       &service.QuotaGuard{Sends: sendRepo},
		Composer:    &service.Composer{TrackingBaseURL: cfg.TrackingBaseURL},
		Mailer:      resend.New(cfg.ResendAPIKey),
		Events:      events,
		BatchSize:   cfg.BatchSize,
		MaxAttempts: cfg.MaxAttempts,
	}

	campaignService := &service.CampaignService{
		CampaignRepo:  campaignRepo,
		ScheduledRepo: scheduledRepo,
	}

	dispatchController := &controller.DispatchController{
		Dispatcher:    dispatcher,
		ScheduledRepo: scheduledRepo,
	}
	campaignController := &controller.CampaignController{CampaignService: campaignService}
	trackingController := &controller.TrackingController{Sends: sendRepo}

	// Scheduled runs: one dispatch batch a minute plus a periodic sweep
	// that requeues rows stranded in processing by a crashed run.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.DispatchCron, func() {
		if _, err := dispatcher.Run(context.Background(), time.Now()); err != nil {
			log.Println("[cron] dispatch run failed:", err)
		}
	}); err != nil {
		log.Fatalf("invalid dispatch cron spec: %v", err)
	}
	if _, err := scheduler.AddFunc(cfg.StuckSweepCron, func() {
		released, err := reconciler.ReleaseStuck(cfg.StuckTimeout)
		if err != nil {
			log.Println("[cron] stuck sweep failed:", err)
			return
		}
		if released > 0 {
			log.Printf("[cron] requeued %d stuck emails", released)
		}
	}); err != nil {
		log.Fatalf("invalid sweep cron spec: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Post("/dispatch/run", dispatchController.Run)

	r.Get("/campaigns", campaignController.ListCampaigns)
	r.Get("/campaigns/{id}", campaignController.GetCampaignDetails)

	r.Get("/scheduled-emails", campaignController.ListScheduledEmails)
	r.Post("/scheduled-emails/{id}/retry", campaignController.RetryScheduledEmail)
	r.Delete("/scheduled-emails/{id}", campaignController.DeleteScheduledEmail)

	r.Get("/track/open/{id}", trackingController.Open)

	log.Printf("server running on %s", cfg.HTTPAddr)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
