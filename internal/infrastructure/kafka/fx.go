package kafka

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/adiel098/subscribely-serenity-sub007/config"
	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
)

// Module provides the Kafka producer for fx dependency injection
var Module = fx.Module("kafka",
	fx.Provide(provideProducer),
)

func provideProducer(lc fx.Lifecycle, cfg *config.KafkaConfig, log zerolog.Logger) (domain.EventPublisher, error) {
	producer, err := NewProducer(cfg.Brokers, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})

	return producer, nil
}
