package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/campushub/backend/internal/config"
	"github.com/campushub/backend/internal/notify"
	mongostore "github.com/campushub/backend/internal/store/mongo"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// deps
	ctx := context.Background()
	client, err := mongostore.Open(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo open")
	}
	st := mongostore.New(client, cfg.MongoDatabase, cfg.StoreTimeout)

	mailer := notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort,
		cfg.SMTPUsername, cfg.SMTPPassword, cfg.SenderAddress)

	w := notify.NewWorker(st.Outbox(), mailer, notify.Config{
		BatchSize: cfg.NotifyBatch,
		Interval:  cfg.NotifyPoll,
	}, log.Logger)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Run(runCtx); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("notify worker exit")
		os.Exit(1)
	}
}
