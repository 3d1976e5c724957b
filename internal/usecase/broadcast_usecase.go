package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adiel098/subscribely-serenity-sub007/config"
	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
	"github.com/adiel098/subscribely-serenity-sub007/internal/infrastructure/metrics"
)

// FilterAudience partitions a member list by the given filter. Suspended
// members are excluded from every audience regardless of status; trial
// members count as active only when the policy says so. Members whose
// status resolves to unknown are excluded from the active and expired
// audiences (fail closed) but remain part of "all".
func FilterAudience(
	members []domain.Member,
	statusOf func(*domain.Member) domain.MemberStatus,
	filter domain.AudienceFilter,
	trialCountsAsActive bool,
) []domain.Member {
	audience := make([]domain.Member, 0, len(members))

	for i := range members {
		member := &members[i]

		if member.IsSuspended {
			continue
		}

		if filter == domain.FilterAll {
			audience = append(audience, *member)
			continue
		}

		switch statusOf(member) {
		case domain.MemberStatusActive:
			if filter == domain.FilterActive {
				audience = append(audience, *member)
			}
		case domain.MemberStatusTrial:
			if filter == domain.FilterActive && trialCountsAsActive {
				audience = append(audience, *member)
			}
		case domain.MemberStatusExpired:
			if filter == domain.FilterExpired {
				audience = append(audience, *member)
			}
		}
	}

	return audience
}

// broadcastUseCase implements domain.BroadcastUseCase
type broadcastUseCase struct {
	memberRepo    domain.MemberRepository
	planRepo      domain.PlanRepository
	communityRepo domain.CommunityRepository
	broadcastRepo domain.BroadcastRepository
	dedup         domain.EventDedupStore
	sender        domain.MessageSender
	publisher     domain.EventPublisher
	policy        *config.PolicyConfig
	metrics       *metrics.Metrics
	logger        zerolog.Logger
}

// NewBroadcastUseCase creates a new broadcast use case
func NewBroadcastUseCase(
	memberRepo domain.MemberRepository,
	planRepo domain.PlanRepository,
	communityRepo domain.CommunityRepository,
	broadcastRepo domain.BroadcastRepository,
	dedup domain.EventDedupStore,
	sender domain.MessageSender,
	publisher domain.EventPublisher,
	policy *config.PolicyConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) domain.BroadcastUseCase {
	return &broadcastUseCase{
		memberRepo:    memberRepo,
		planRepo:      planRepo,
		communityRepo: communityRepo,
		broadcastRepo: broadcastRepo,
		dedup:         dedup,
		sender:        sender,
		publisher:     publisher,
		policy:        policy,
		metrics:       m,
		logger:        logger,
	}
}

// SendBroadcast dispatches one broadcast request. Redelivery of the same
// event id returns the recorded result without sending again.
func (u *broadcastUseCase) SendBroadcast(ctx context.Context, req *domain.BroadcastRequest) (*domain.BroadcastStatus, error) {
	if req.CommunityID == "" {
		return nil, domain.ErrInvalidCommunityID
	}

	if req.Message == "" {
		return nil, domain.ErrEmptyMessage
	}

	if !req.Filter.Valid() {
		return nil, domain.ErrInvalidFilter
	}

	if req.EventID == "" {
		req.EventID = uuid.NewString()
	}

	first, err := u.dedup.MarkProcessed(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	if !first {
		u.metrics.WebhookDuplicates.Inc()
		return u.recordedResult(ctx, req.EventID)
	}

	// No side effect has run until the first send, so failures here release
	// the event id and let a retry dispatch.
	community, err := u.communityRepo.GetByID(ctx, req.CommunityID)
	if err != nil {
		u.releaseEvent(ctx, req.EventID)
		return nil, err
	}

	audience, err := u.resolveAudience(ctx, community.ID, req.Filter)
	if err != nil {
		u.releaseEvent(ctx, req.EventID)
		return nil, err
	}

	sent, failed := 0, 0
	for i := range audience {
		member := &audience[i]
		if err := u.sender.SendMessage(ctx, member.TelegramUserID, req.Message, req.Button); err != nil {
			failed++
			u.metrics.BroadcastSendErrors.Inc()
			u.logger.Error().Err(err).
				Int64("telegram_user_id", member.TelegramUserID).
				Str("event_id", req.EventID).
				Msg("Failed to deliver broadcast message")
			continue
		}
		sent++
		u.metrics.BroadcastRecipientsSent.Inc()
	}

	status := &domain.BroadcastStatus{
		ID:              uuid.NewString(),
		EventID:         req.EventID,
		CommunityID:     community.ID,
		FilterType:      req.Filter,
		Message:         req.Message,
		TotalRecipients: len(audience),
		SentCount:       sent,
		FailedCount:     failed,
	}

	if err := u.broadcastRepo.Save(ctx, status); err != nil {
		return nil, err
	}

	u.metrics.BroadcastsTotal.Inc()

	event := domain.BroadcastEvent{
		Type:            domain.EventBroadcastCompleted,
		EventID:         req.EventID,
		CommunityID:     community.ID,
		FilterType:      req.Filter,
		TotalRecipients: len(audience),
		SentCount:       sent,
		FailedCount:     failed,
		OccurredAt:      time.Now(),
	}
	if err := u.publisher.Publish(ctx, domain.TopicBroadcastEvents, community.ID, event); err != nil {
		u.logger.Error().Err(err).
			Str("event_id", req.EventID).
			Msg("Failed to publish broadcast completed event")
	}

	u.logger.Info().
		Str("event_id", req.EventID).
		Str("community_id", community.ID).
		Str("filter", string(req.Filter)).
		Int("total", len(audience)).
		Int("sent", sent).
		Int("failed", failed).
		Msg("Broadcast dispatched")

	return status, nil
}

// releaseEvent forgets a marked event id after a failure that ran no side
// effect. Best effort: a leftover mark only delays the retry until the
// dedup window expires.
func (u *broadcastUseCase) releaseEvent(ctx context.Context, eventID string) {
	if err := u.dedup.Unmark(ctx, eventID); err != nil {
		u.logger.Warn().Err(err).
			Str("event_id", eventID).
			Msg("Failed to release dedup mark for failed broadcast")
	}
}

// resolveAudience evaluates every member of the community and applies the
// audience filter
func (u *broadcastUseCase) resolveAudience(ctx context.Context, communityID string, filter domain.AudienceFilter) ([]domain.Member, error) {
	members, err := u.memberRepo.GetByCommunity(ctx, communityID)
	if err != nil {
		return nil, err
	}

	plans, err := u.planRepo.GetByCommunity(ctx, communityID)
	if err != nil {
		return nil, err
	}

	intervals := make(map[uint]domain.PlanInterval, len(plans))
	for _, p := range plans {
		intervals[p.ID] = p.Interval
	}

	now := time.Now()
	statusOf := func(m *domain.Member) domain.MemberStatus {
		return Evaluate(m, memberInterval(m, intervals), now).Status
	}

	return FilterAudience(members, statusOf, filter, u.policy.TrialCountsAsActive), nil
}

// recordedResult loads the result stored by the first delivery. A record
// not yet visible means the first delivery is still in flight; the caller
// gets an empty result for the same event id.
func (u *broadcastUseCase) recordedResult(ctx context.Context, eventID string) (*domain.BroadcastStatus, error) {
	status, err := u.broadcastRepo.GetByEventID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrBroadcastNotFound) {
			return &domain.BroadcastStatus{EventID: eventID}, nil
		}
		return nil, err
	}
	return status, nil
}
