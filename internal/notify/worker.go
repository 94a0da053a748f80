package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/campushub/backend/internal/store"
)

// Config controls batch size and polling cadence.
type Config struct {
	BatchSize int           // number of rows to lease per cycle
	Interval  time.Duration // poll interval
}

// Worker drains the notification outbox and delivers through the mailer.
// Failed deliveries back off per row; the worker itself never retries
// inline.
type Worker struct {
	outbox store.Outbox
	mailer Mailer
	log    zerolog.Logger
	cfg    Config
}

// NewWorker constructs a Worker from dependencies.
func NewWorker(outbox store.Outbox, mailer Mailer, cfg Config, log zerolog.Logger) *Worker {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	return &Worker{outbox: outbox, mailer: mailer, cfg: cfg, log: log}
}

// Run starts the polling loop until ctx is canceled.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info().Int("batch", w.cfg.BatchSize).Dur("interval", w.cfg.Interval).Msg("notify worker starting")
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("notify worker stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := w.processOnce(ctx); err != nil {
				// Log and continue; per-row backoff prevents hot-looping
				w.log.Error().Err(err).Msg("notify processOnce")
			}
		}
	}
}

func (w *Worker) processOnce(ctx context.Context) error {
	batch, err := w.outbox.LeaseBatch(ctx, w.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, n := range batch {
		id := n.ID.Hex()
		if err := w.mailer.Send(ctx, n); err != nil {
			w.log.Warn().Err(err).Str("id", id).Str("recipient", n.Recipient).Msg("delivery failed")
			if e := w.outbox.MarkFailed(ctx, id); e != nil {
				w.log.Error().Err(e).Str("id", id).Msg("markFailed error")
			}
			continue
		}
		if e := w.outbox.MarkSent(ctx, id); e != nil {
			w.log.Error().Err(e).Str("id", id).Msg("markSent error")
		}
	}
	return nil
}
