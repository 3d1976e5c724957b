package providers

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/adiel098/subscribely-serenity-sub007/config"
)

// Module provides payment provider clients for fx dependency injection
var Module = fx.Module("providers",
	fx.Provide(provideRegistry),
)

func provideRegistry(cfg *config.ProvidersConfig, logger zerolog.Logger) *Registry {
	return NewRegistry(
		NewStripeClient(cfg.StripeBaseURL, cfg.StripeAPIKey, logger),
		NewPayPalClient(cfg.PayPalBaseURL, cfg.PayPalClientID, cfg.PayPalSecret, logger),
		NewNOWPaymentsClient(cfg.NOWPaymentsBaseURL, cfg.NOWPaymentsAPIKey, logger),
	)
}
