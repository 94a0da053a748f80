package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campushub/backend/internal/api"
	"github.com/campushub/backend/internal/blob/mediahost"
	"github.com/campushub/backend/internal/config"
	"github.com/campushub/backend/internal/media"
	"github.com/campushub/backend/internal/platform/logger"
	"github.com/campushub/backend/internal/services"
	mongostore "github.com/campushub/backend/internal/store/mongo"
)

func main() {
	log := logger.New("campushub-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().
		Int("http_port", cfg.HTTPPort).
		Str("mongo_database", cfg.MongoDatabase).
		Msg("campushub service starting…")

	// -------- Storage layer -----------------
	ctx := context.Background()
	client, err := mongostore.Open(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("Document store unavailable")
	}
	st := mongostore.New(client, cfg.MongoDatabase, cfg.StoreTimeout)
	if err := mongostore.EnsureIndexes(ctx, st); err != nil {
		log.Fatal().Err(err).Msg("Index bootstrap failed")
	}

	// -------- Collaborators -----------------
	blobs := mediahost.New(cfg.MediaHostURL, cfg.MediaHostAPIKey, cfg.MediaHostTimeout)
	extractor := media.NewYTDLExtractor(cfg.YTDLPath, cfg.YTDLBitrate, cfg.YTDLTimeout, cfg.ScratchDir)

	// -------- Services ----------------------
	submissions := services.NewSubmissionService(st, blobs, extractor,
		cfg.MediaRootFolder, cfg.OperatorEmail, cfg.DisplayLocation())
	users := services.NewUserService(st)
	notifySvc := services.NewNotifyService(st)

	// -------- Router & Server --------------
	var pinger api.HealthPinger
	if p, ok := st.(api.HealthPinger); ok {
		pinger = p
	}
	router := api.NewRouter(api.Deps{
		Submissions: submissions,
		Users:       users,
		Notify:      notifySvc,
		Health:      pinger,
	})
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	if err := client.Disconnect(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("Document store disconnect")
	}
	log.Info().Msg("Server exited")
}
