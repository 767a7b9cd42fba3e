package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// OverdueSweeper is the store operation the sweep needs.
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context, now time.Time) (int64, error)
}

// OverdueWorker periodically flips stale attempts of ended exams to
// overdue. The read paths already do this lazily per attempt; the sweep
// keeps reporting queries honest for attempts nobody reads.
type OverdueWorker struct {
	attempts OverdueSweeper
	interval time.Duration
	log      zerolog.Logger
}

// NewOverdueWorker creates an OverdueWorker. A non-positive interval
// disables the sweep.
func NewOverdueWorker(attempts OverdueSweeper, interval time.Duration, log zerolog.Logger) *OverdueWorker {
	return &OverdueWorker{
		attempts: attempts,
		interval: interval,
		log:      log.With().Str("component", "overdue_worker").Logger(),
	}
}

// Start runs the sweep loop until the context is cancelled.
func (w *OverdueWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		w.log.Info().Msg("OverdueWorker disabled")
		return
	}
	w.log.Info().Dur("interval", w.interval).Msg("OverdueWorker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("OverdueWorker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *OverdueWorker) sweep(ctx context.Context) {
	flipped, err := w.attempts.SweepOverdue(ctx, time.Now())
	if err != nil {
		w.log.Error().Err(err).Msg("Overdue sweep failed")
		return
	}
	if flipped > 0 {
		w.log.Info().Int64("flipped", flipped).Msg("Attempts marked overdue")
	}
}
