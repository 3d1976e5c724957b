package redis

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/adiel098/subscribely-serenity-sub007/config"
	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
	"github.com/adiel098/subscribely-serenity-sub007/internal/infrastructure/cache"
)

// Module provides the webhook dedup store for fx dependency injection
var Module = fx.Module("dedup",
	fx.Provide(provideEventStore),
)

func provideEventStore(cache *cache.Client, cfg *config.RedisConfig, logger zerolog.Logger) domain.EventDedupStore {
	return NewEventStore(cache, cfg.DedupTTL, logger)
}
