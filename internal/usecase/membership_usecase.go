package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
)

// membershipUseCase implements domain.MembershipUseCase
type membershipUseCase struct {
	communityRepo domain.CommunityRepository
	memberRepo    domain.MemberRepository
	publisher     domain.EventPublisher
	logger        zerolog.Logger
}

// NewMembershipUseCase creates a new membership use case
func NewMembershipUseCase(
	communityRepo domain.CommunityRepository,
	memberRepo domain.MemberRepository,
	publisher domain.EventPublisher,
	logger zerolog.Logger,
) domain.MembershipUseCase {
	return &membershipUseCase{
		communityRepo: communityRepo,
		memberRepo:    memberRepo,
		publisher:     publisher,
		logger:        logger,
	}
}

// HandleJoin registers or reactivates a member who joined via the bot
func (u *membershipUseCase) HandleJoin(ctx context.Context, chatID int64, telegramUserID int64, username string) error {
	community, err := u.communityRepo.GetByTelegramChatID(ctx, chatID)
	if err != nil {
		return err
	}

	member := &domain.Member{
		CommunityID:      community.ID,
		TelegramUserID:   telegramUserID,
		TelegramUsername: username,
		IsActive:         true,
		LastActiveAt:     time.Now(),
	}

	if err := u.memberRepo.Upsert(ctx, member); err != nil {
		u.logger.Error().Err(err).
			Str("community_id", community.ID).
			Int64("telegram_user_id", telegramUserID).
			Msg("Failed to upsert joining member")
		return err
	}

	event := domain.MembershipEvent{
		Type:           domain.EventMemberJoined,
		CommunityID:    community.ID,
		TelegramUserID: telegramUserID,
		OccurredAt:     time.Now(),
	}
	if err := u.publisher.Publish(ctx, domain.TopicMembershipEvents, community.ID, event); err != nil {
		u.logger.Error().Err(err).
			Str("community_id", community.ID).
			Msg("Failed to publish member joined event")
	}

	u.logger.Info().
		Str("community_id", community.ID).
		Int64("telegram_user_id", telegramUserID).
		Msg("Member joined")

	return nil
}

// HandleLeave soft-marks a member inactive after leaving the chat
func (u *membershipUseCase) HandleLeave(ctx context.Context, chatID int64, telegramUserID int64) error {
	community, err := u.communityRepo.GetByTelegramChatID(ctx, chatID)
	if err != nil {
		return err
	}

	member, err := u.memberRepo.GetByTelegramID(ctx, community.ID, telegramUserID)
	if err != nil {
		return err
	}

	if err := u.memberRepo.MarkInactive(ctx, member.ID); err != nil {
		return err
	}

	event := domain.MembershipEvent{
		Type:           domain.EventMemberLeft,
		CommunityID:    community.ID,
		TelegramUserID: telegramUserID,
		OccurredAt:     time.Now(),
	}
	if err := u.publisher.Publish(ctx, domain.TopicMembershipEvents, community.ID, event); err != nil {
		u.logger.Error().Err(err).
			Str("community_id", community.ID).
			Msg("Failed to publish member left event")
	}

	u.logger.Info().
		Str("community_id", community.ID).
		Int64("telegram_user_id", telegramUserID).
		Msg("Member left")

	return nil
}
