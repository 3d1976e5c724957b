package app

import (
	"go.uber.org/fx"

	"github.com/adiel098/subscribely-serenity-sub007/config"
	deliveryhttp "github.com/adiel098/subscribely-serenity-sub007/internal/delivery/http"
	"github.com/adiel098/subscribely-serenity-sub007/internal/infrastructure/cache"
	"github.com/adiel098/subscribely-serenity-sub007/internal/infrastructure/database"
	"github.com/adiel098/subscribely-serenity-sub007/internal/infrastructure/kafka"
	"github.com/adiel098/subscribely-serenity-sub007/internal/infrastructure/logger"
	"github.com/adiel098/subscribely-serenity-sub007/internal/infrastructure/metrics"
	"github.com/adiel098/subscribely-serenity-sub007/internal/infrastructure/providers"
	"github.com/adiel098/subscribely-serenity-sub007/internal/infrastructure/telegram"
	repopostgres "github.com/adiel098/subscribely-serenity-sub007/internal/repository/postgres"
	reporedis "github.com/adiel098/subscribely-serenity-sub007/internal/repository/redis"
	"github.com/adiel098/subscribely-serenity-sub007/internal/usecase"
	"github.com/adiel098/subscribely-serenity-sub007/internal/workers"
)

func CreateApp() fx.Option {
	return fx.Options(
		fx.Provide(config.Out),

		logger.Module,
		database.Module,
		cache.Module,
		kafka.Module,
		telegram.Module,
		metrics.Module,
		providers.Module,

		repopostgres.Module,
		reporedis.Module,

		usecase.Module,

		deliveryhttp.Module,
		workers.Module,
	)
}
