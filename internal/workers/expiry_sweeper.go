// Package workers contains background jobs driven by tickers
package workers

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
)

// ExpirySweeper periodically re-evaluates member subscriptions so that
// lapsed members are enforced even when nobody queries their status, and
// times out payments stuck in a non-final state
type ExpirySweeper struct {
	statusUC    domain.StatusUseCase
	paymentUC   domain.PaymentUseCase
	communities domain.CommunityRepository
	interval    time.Duration
	paymentAge  time.Duration
	logger      zerolog.Logger
	stop        chan struct{}
	done        chan struct{}
}

// NewExpirySweeper creates a new expiry sweeper
func NewExpirySweeper(
	statusUC domain.StatusUseCase,
	paymentUC domain.PaymentUseCase,
	communities domain.CommunityRepository,
	interval time.Duration,
	paymentAge time.Duration,
	logger zerolog.Logger,
) *ExpirySweeper {
	return &ExpirySweeper{
		statusUC:    statusUC,
		paymentUC:   paymentUC,
		communities: communities,
		interval:    interval,
		paymentAge:  paymentAge,
		logger:      logger,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start launches the sweep loop in a separate goroutine
func (w *ExpirySweeper) Start() {
	go w.run()
}

// Stop signals the loop to finish and waits for it
func (w *ExpirySweeper) Stop() {
	close(w.stop)
	<-w.done
}

func (w *ExpirySweeper) run() {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info().
		Dur("interval", w.interval).
		Msg("Expiry sweeper started")

	for {
		select {
		case <-w.stop:
			w.logger.Info().Msg("Expiry sweeper stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

// sweep runs one full pass over all communities and stale payments
func (w *ExpirySweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), w.interval)
	defer cancel()

	expiredPayments, err := w.paymentUC.ExpireStalePayments(ctx, w.paymentAge)
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to expire stale payments")
	}

	communities, err := w.communities.ListAll(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to list communities for sweep")
		return
	}

	totalExpired := 0
	for _, community := range communities {
		expired, err := w.statusUC.SweepCommunity(ctx, community.ID)
		if err != nil {
			w.logger.Error().Err(err).
				Str("community_id", community.ID).
				Msg("Community sweep failed")
			continue
		}
		totalExpired += expired
	}

	w.logger.Info().
		Int("communities", len(communities)).
		Int("expired", totalExpired).
		Int64("expired_payments", expiredPayments).
		Msg("Expiry sweep pass finished")
}
