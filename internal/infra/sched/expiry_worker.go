package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"course-subscription-platform/internal/domain/ports/repository"
	"course-subscription-platform/internal/infra/metrics"
)

// ExpiryWorker periodically flips stored active subscriptions whose EndsAt
// has passed to expired. Entitlement checks never rely on this sweep; it only
// keeps stored status close to the truth for reporting.
type ExpiryWorker struct {
	interval time.Duration
	subs     repository.SubscriptionRepository
	log      *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, subs repository.SubscriptionRepository, logger *zerolog.Logger) *ExpiryWorker {
	compLog := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{
		interval: interval,
		subs:     subs,
		log:      &compLog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting expiry worker")
	// Run once on startup, then on every tick
	w.runSweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			w.runSweep(ctx)
		}
	}
}

func (w *ExpiryWorker) runSweep(ctx context.Context) {
	n, err := w.subs.MarkExpired(ctx, repository.NoTX, time.Now())
	if err != nil {
		w.log.Error().Err(err).Msg("expiry sweep failed")
		return
	}
	if n > 0 {
		metrics.AddSubscriptionsExpired(n)
		w.log.Info().Int64("count", n).Msg("subscriptions expired")
	}
}
