package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
	"github.com/adiel098/subscribely-serenity-sub007/internal/infrastructure/metrics"
)

// Evaluate derives a member's subscription status from its payment
// timestamps at the given instant. The rules are fail-closed: a member
// with no payment and no trial window is expired, and an unresolvable
// plan grants a zero-length access window.
func Evaluate(member *domain.Member, interval domain.PlanInterval, now time.Time) domain.StatusResult {
	if member.LastPaymentAt == nil {
		if member.TrialEndsAt == nil {
			return domain.StatusResult{Status: domain.MemberStatusExpired}
		}
		if now.Before(*member.TrialEndsAt) {
			return domain.StatusResult{Status: domain.MemberStatusTrial, ExpiresAt: member.TrialEndsAt}
		}
		return domain.StatusResult{Status: domain.MemberStatusExpired, ExpiresAt: member.TrialEndsAt}
	}

	window, bounded := interval.Duration()
	if !bounded {
		// one-time purchase, access never lapses
		return domain.StatusResult{Status: domain.MemberStatusActive}
	}

	expiresAt := member.LastPaymentAt.Add(window)
	if now.Before(expiresAt) {
		return domain.StatusResult{Status: domain.MemberStatusActive, ExpiresAt: &expiresAt}
	}
	return domain.StatusResult{Status: domain.MemberStatusExpired, ExpiresAt: &expiresAt}
}

// statusUseCase implements domain.StatusUseCase
type statusUseCase struct {
	memberRepo    domain.MemberRepository
	planRepo      domain.PlanRepository
	communityRepo domain.CommunityRepository
	sender        domain.MessageSender
	publisher     domain.EventPublisher
	metrics       *metrics.Metrics
	logger        zerolog.Logger
}

// NewStatusUseCase creates a new status use case
func NewStatusUseCase(
	memberRepo domain.MemberRepository,
	planRepo domain.PlanRepository,
	communityRepo domain.CommunityRepository,
	sender domain.MessageSender,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
	logger zerolog.Logger,
) domain.StatusUseCase {
	return &statusUseCase{
		memberRepo:    memberRepo,
		planRepo:      planRepo,
		communityRepo: communityRepo,
		sender:        sender,
		publisher:     publisher,
		metrics:       m,
		logger:        logger,
	}
}

// CheckMember evaluates one member, persists the derived flags and enforces
// the expired transition (idempotent)
func (u *statusUseCase) CheckMember(ctx context.Context, communityID string, telegramUserID int64) (*domain.StatusResult, error) {
	if communityID == "" {
		return nil, domain.ErrInvalidCommunityID
	}

	member, err := u.memberRepo.GetByTelegramID(ctx, communityID, telegramUserID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return nil, err
		}
		// timestamp source unavailable: report unknown, never grant access
		u.logger.Warn().Err(err).
			Str("community_id", communityID).
			Int64("telegram_user_id", telegramUserID).
			Msg("Member lookup unavailable, status unknown")
		u.metrics.StatusEvaluationsTotal.WithLabelValues(string(domain.MemberStatusUnknown)).Inc()
		return &domain.StatusResult{Status: domain.MemberStatusUnknown}, nil
	}

	interval, ok := u.resolveInterval(ctx, member)
	if !ok {
		u.metrics.StatusEvaluationsTotal.WithLabelValues(string(domain.MemberStatusUnknown)).Inc()
		return &domain.StatusResult{Status: domain.MemberStatusUnknown}, nil
	}

	result := Evaluate(member, interval, time.Now())
	u.metrics.StatusEvaluationsTotal.WithLabelValues(string(result.Status)).Inc()

	community, err := u.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return nil, err
	}

	if _, err := u.enforce(ctx, community, member, result); err != nil {
		return nil, err
	}

	return &result, nil
}

// SweepCommunity re-evaluates every member of a community and returns how
// many were transitioned to expired
func (u *statusUseCase) SweepCommunity(ctx context.Context, communityID string) (int, error) {
	start := time.Now()
	defer func() {
		u.metrics.ExpirySweepDuration.Observe(time.Since(start).Seconds())
	}()

	community, err := u.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return 0, err
	}

	members, err := u.memberRepo.GetByCommunity(ctx, communityID)
	if err != nil {
		return 0, err
	}

	intervals, err := u.planIntervals(ctx, communityID)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	expired := 0

	for i := range members {
		member := &members[i]

		// already enforced on a previous pass, nothing to do
		if member.SubscriptionStatus == domain.MemberStatusExpired && !member.IsActive {
			continue
		}

		result := Evaluate(member, memberInterval(member, intervals), now)
		u.metrics.StatusEvaluationsTotal.WithLabelValues(string(result.Status)).Inc()

		transitioned, err := u.enforce(ctx, community, member, result)
		if err != nil {
			u.logger.Error().Err(err).
				Uint("member_id", member.ID).
				Str("community_id", communityID).
				Msg("Failed to enforce member status")
			continue
		}
		if transitioned {
			expired++
		}
	}

	u.logger.Info().
		Str("community_id", communityID).
		Int("members", len(members)).
		Int("expired", expired).
		Msg("Community sweep finished")

	return expired, nil
}

// enforce persists the evaluated status. A transition into expired also
// removes the member from the chat and publishes an audit event; a member
// already enforced as expired is left untouched so redelivery and repeated
// sweeps stay side-effect free.
func (u *statusUseCase) enforce(ctx context.Context, community *domain.Community, member *domain.Member, result domain.StatusResult) (bool, error) {
	if result.Status == domain.MemberStatusExpired {
		if member.SubscriptionStatus == domain.MemberStatusExpired && !member.IsActive {
			return false, nil
		}

		if err := u.memberRepo.UpdateStatus(ctx, member.ID, domain.MemberStatusExpired, false); err != nil {
			return false, err
		}

		if err := u.sender.RemoveFromChat(ctx, community.TelegramChatID, member.TelegramUserID); err != nil {
			u.logger.Error().Err(err).
				Int64("chat_id", community.TelegramChatID).
				Int64("telegram_user_id", member.TelegramUserID).
				Msg("Failed to remove expired member from chat")
		}

		event := domain.MembershipEvent{
			Type:           domain.EventMemberExpired,
			CommunityID:    community.ID,
			TelegramUserID: member.TelegramUserID,
			Status:         domain.MemberStatusExpired,
			OccurredAt:     time.Now(),
		}
		if err := u.publisher.Publish(ctx, domain.TopicMembershipEvents, community.ID, event); err != nil {
			u.logger.Error().Err(err).
				Str("community_id", community.ID).
				Msg("Failed to publish member expired event")
		}

		u.metrics.MembersExpiredTotal.Inc()
		return true, nil
	}

	if result.Status != member.SubscriptionStatus || !member.IsActive {
		if err := u.memberRepo.UpdateStatus(ctx, member.ID, result.Status, true); err != nil {
			return false, err
		}
	}

	return false, nil
}

// resolveInterval looks up the member's plan interval. A missing plan
// yields an empty interval, which Evaluate treats as a zero-length window.
// The second result is false when the plan source is unavailable.
func (u *statusUseCase) resolveInterval(ctx context.Context, member *domain.Member) (domain.PlanInterval, bool) {
	if member.PlanID == nil {
		return "", true
	}

	plan, err := u.planRepo.GetByID(ctx, *member.PlanID)
	if err != nil {
		if errors.Is(err, domain.ErrPlanNotFound) {
			return "", true
		}
		u.logger.Warn().Err(err).
			Uint("plan_id", *member.PlanID).
			Msg("Plan lookup unavailable, status unknown")
		return "", false
	}

	return plan.Interval, true
}

// planIntervals loads all plan intervals of a community keyed by plan id
func (u *statusUseCase) planIntervals(ctx context.Context, communityID string) (map[uint]domain.PlanInterval, error) {
	plans, err := u.planRepo.GetByCommunity(ctx, communityID)
	if err != nil {
		return nil, err
	}

	intervals := make(map[uint]domain.PlanInterval, len(plans))
	for _, p := range plans {
		intervals[p.ID] = p.Interval
	}
	return intervals, nil
}

// memberInterval resolves a member's interval from a preloaded plan map
func memberInterval(member *domain.Member, intervals map[uint]domain.PlanInterval) domain.PlanInterval {
	if member.PlanID == nil {
		return ""
	}
	return intervals[*member.PlanID]
}
