package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type StaleLeadMarker interface {
	MarkStaleAsLost(ctx context.Context, cutoff time.Time) (int64, error)
}

// StaleLeadWorker periodically closes leads that stopped answering.
type StaleLeadWorker struct {
	leads        StaleLeadMarker
	staleAfter   time.Duration
	tickInterval time.Duration
	now          func() time.Time
}

func NewStaleLeadWorker(leads StaleLeadMarker, staleAfter, tickInterval time.Duration) *StaleLeadWorker {
	if tickInterval <= 0 {
		tickInterval = time.Hour
	}
	return &StaleLeadWorker{
		leads:        leads,
		staleAfter:   staleAfter,
		tickInterval: tickInterval,
		now:          time.Now,
	}
}

func (w *StaleLeadWorker) Start(ctx context.Context) {
	if w.staleAfter <= 0 {
		log.Info().Msg("stale lead worker disabled")
		return
	}
	log.Info().Dur("stale_after", w.staleAfter).Dur("interval", w.tickInterval).Msg("🕒 stale lead worker started")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("⚠️ stale lead worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *StaleLeadWorker) sweep(ctx context.Context) int64 {
	cutoff := w.now().Add(-w.staleAfter)
	n, err := w.leads.MarkStaleAsLost(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("❌ failed to mark stale leads")
		return 0
	}
	if n > 0 {
		log.Info().Int64("count", n).Time("cutoff", cutoff).Msg("leads marked as lost")
	}
	return n
}
