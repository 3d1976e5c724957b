package usecase

import (
	"go.uber.org/fx"

	"github.com/adiel098/subscribely-serenity-sub007/internal/infrastructure/providers"
)

// Module provides use cases for fx dependency injection
var Module = fx.Module("usecase",
	fx.Provide(
		NewStatusUseCase,
		NewBroadcastUseCase,
		NewPaymentUseCase,
		NewMembershipUseCase,
		provideRegistry,
	),
)

func provideRegistry(registry *providers.Registry) ProviderRegistry {
	return registry
}
