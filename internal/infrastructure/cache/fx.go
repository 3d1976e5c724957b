package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/adiel098/subscribely-serenity-sub007/config"
)

// Module provides the Redis client for fx dependency injection
var Module = fx.Module("cache",
	fx.Provide(provideClient),
)

func provideClient(lc fx.Lifecycle, cfg *config.RedisConfig, log zerolog.Logger) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := NewClient(ctx, cfg.Addr, cfg.Password, cfg.DB, cfg.KeyPrefix)
	if err != nil {
		log.Error().Err(err).Str("addr", cfg.Addr).Msg("failed to connect to Redis")
		return nil, err
	}

	log.Info().Str("addr", cfg.Addr).Msg("Redis connected")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("closing Redis connection...")
			return client.Close()
		},
	})

	return client, nil
}
