// Package telegram contains Telegram bot infrastructure
package telegram

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/adiel098/subscribely-serenity-sub007/config"
	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
)

// Module provides the Telegram bot and sender for fx dependency injection
var Module = fx.Module("telegram",
	fx.Provide(provideBot),
	fx.Provide(provideSender),
)

// provideBot creates the Telegram bot from config
func provideBot(cfg *config.TelegramConfig, logger zerolog.Logger) (*Bot, error) {
	return NewBot(cfg.BotToken, logger)
}

// provideSender exposes the sender as the domain MessageSender
func provideSender(b *Bot, logger zerolog.Logger) domain.MessageSender {
	return NewSender(b, logger)
}
