package postgres

import (
	"go.uber.org/fx"
)

// Module provides postgres repositories for fx dependency injection
var Module = fx.Module("repository",
	fx.Provide(
		NewCommunityRepository,
		NewMemberRepository,
		NewPlanRepository,
		NewPaymentRepository,
		NewBroadcastRepository,
	),
)
