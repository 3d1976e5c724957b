package telegram

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
)

// Sender implements domain.MessageSender on top of the bot client
type Sender struct {
	bot    *tgbot.Bot
	logger zerolog.Logger
}

// NewSender creates a new message sender
func NewSender(b *Bot, logger zerolog.Logger) *Sender {
	return &Sender{
		bot:    b.Raw(),
		logger: logger,
	}
}

// SendMessage sends a text message, optionally with a CTA button
func (s *Sender) SendMessage(ctx context.Context, chatID int64, text string, button *domain.CTAButton) error {
	params := &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}

	if button != nil {
		params.ReplyMarkup = models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{
				{{Text: button.Text, URL: button.URL}},
			},
		}
	}

	_, err := s.bot.SendMessage(ctx, params)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("chat_id", chatID).
			Msg("failed to send telegram message")
		return err
	}

	return nil
}

// RemoveFromChat removes a user from a group chat. The user is unbanned right
// after the kick so they can rejoin once access is renewed.
func (s *Sender) RemoveFromChat(ctx context.Context, chatID int64, userID int64) error {
	_, err := s.bot.BanChatMember(ctx, &tgbot.BanChatMemberParams{
		ChatID: chatID,
		UserID: userID,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("chat_id", chatID).
			Int64("user_id", userID).
			Msg("failed to remove user from chat")
		return err
	}

	_, err = s.bot.UnbanChatMember(ctx, &tgbot.UnbanChatMemberParams{
		ChatID:       chatID,
		UserID:       userID,
		OnlyIfBanned: true,
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int64("chat_id", chatID).
			Int64("user_id", userID).
			Msg("failed to unban user after removal")
		return err
	}

	s.logger.Info().
		Int64("chat_id", chatID).
		Int64("user_id", userID).
		Msg("user removed from chat")

	return nil
}
