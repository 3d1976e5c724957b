package http

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	pkgerrors "github.com/adiel098/subscribely-serenity-sub007/pkg/errors"

	"github.com/adiel098/subscribely-serenity-sub007/config"
	"github.com/adiel098/subscribely-serenity-sub007/internal/infrastructure/cache"
)

// Module provides the HTTP delivery layer for fx dependency injection
var Module = fx.Module("http",
	fx.Provide(
		pkgerrors.NewMapper,
		NewWebhookHandler,
		NewFunctionsHandler,
		provideAPIServer,
		provideHealthHandler,
		provideOpsServer,
	),
	fx.Invoke(registerServers),
)

// gormPinger adapts *gorm.DB to the Pinger interface
type gormPinger struct {
	db *gorm.DB
}

func (p gormPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func provideAPIServer(cfg *config.HTTPConfig, webhook *WebhookHandler, funcs *FunctionsHandler, logger zerolog.Logger) *Server {
	return NewServer(cfg.APIPort, webhook, funcs, logger)
}

func provideHealthHandler(db *gorm.DB, cache *cache.Client, logger zerolog.Logger) *HealthHandler {
	return NewHealthHandler(gormPinger{db: db}, cache, logger)
}

func provideOpsServer(cfg *config.HTTPConfig, health *HealthHandler, logger zerolog.Logger) *OpsServer {
	return NewOpsServer(cfg.OpsPort, health, logger)
}

func registerServers(lc fx.Lifecycle, api *Server, ops *OpsServer) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := api.Start(); err != nil {
				return err
			}
			return ops.Start()
		},
		OnStop: func(ctx context.Context) error {
			if err := api.Shutdown(); err != nil {
				return err
			}
			return ops.Shutdown(ctx)
		},
	})
}
