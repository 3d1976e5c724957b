package workers

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/adiel098/subscribely-serenity-sub007/config"
	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
)

// Module provides background workers for fx dependency injection
var Module = fx.Module("workers",
	fx.Provide(provideExpirySweeper),
	fx.Invoke(registerExpirySweeper),
)

func provideExpirySweeper(
	statusUC domain.StatusUseCase,
	paymentUC domain.PaymentUseCase,
	communities domain.CommunityRepository,
	cfg *config.PolicyConfig,
	logger zerolog.Logger,
) *ExpirySweeper {
	return NewExpirySweeper(statusUC, paymentUC, communities, cfg.ExpirySweepInterval, cfg.PaymentExpiryAge, logger)
}

func registerExpirySweeper(lc fx.Lifecycle, sweeper *ExpirySweeper) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}
