package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adiel098/subscribely-serenity-sub007/config"
	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
	"github.com/adiel098/subscribely-serenity-sub007/internal/infrastructure/metrics"
)

const defaultCurrency = "USD"

// ProviderRegistry resolves the client for a payment provider
type ProviderRegistry interface {
	ByName(provider domain.PaymentProvider) (domain.ProviderClient, error)
}

// MapPlatform projects a raw platform payment onto the unified view
func MapPlatform(p *domain.PlatformPayment) domain.UnifiedPayment {
	payer := domain.Payer{ID: p.OwnerID, Name: p.PayerName}
	if payer.Name == "" {
		payer.Name = domain.UnknownPayerName
	}

	currency := p.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	return domain.UnifiedPayment{
		Type:      domain.SourcePlatform,
		ID:        p.ID,
		Amount:    p.Amount,
		Currency:  currency,
		Status:    p.Status,
		Provider:  p.Provider,
		Payer:     payer,
		PlanID:    p.PlanID,
		PlanName:  p.PlanName,
		CreatedAt: p.CreatedAt,
	}
}

// MapProject projects a raw project payment onto the unified view
func MapProject(p *domain.ProjectPayment) domain.UnifiedPayment {
	payer := domain.Payer{TelegramID: p.TelegramUserID, Name: p.TelegramUsername}
	if payer.Name == "" {
		payer.Name = domain.UnknownPayerName
	}

	currency := p.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	return domain.UnifiedPayment{
		Type:        domain.SourceProject,
		ID:          p.ID,
		Amount:      p.Amount,
		Currency:    currency,
		Status:      p.Status,
		Provider:    p.Provider,
		Payer:       payer,
		CommunityID: p.CommunityID,
		PlanID:      p.PlanID,
		PlanName:    p.PlanName,
		CreatedAt:   p.CreatedAt,
	}
}

// Reconcile merges both raw payment sources into one view, newest first.
// Ordering is deterministic: ties on creation time fall back to source and id.
func Reconcile(platform []domain.PlatformPayment, project []domain.ProjectPayment) []domain.UnifiedPayment {
	unified := make([]domain.UnifiedPayment, 0, len(platform)+len(project))
	for i := range platform {
		unified = append(unified, MapPlatform(&platform[i]))
	}
	for i := range project {
		unified = append(unified, MapProject(&project[i]))
	}

	sort.Slice(unified, func(i, j int) bool {
		if !unified[i].CreatedAt.Equal(unified[j].CreatedAt) {
			return unified[i].CreatedAt.After(unified[j].CreatedAt)
		}
		if unified[i].Type != unified[j].Type {
			return unified[i].Type < unified[j].Type
		}
		return unified[i].ID > unified[j].ID
	})

	return unified
}

// paymentUseCase implements domain.PaymentUseCase
type paymentUseCase struct {
	paymentRepo domain.PaymentRepository
	memberRepo  domain.MemberRepository
	planRepo    domain.PlanRepository
	registry    ProviderRegistry
	publisher   domain.EventPublisher
	providers   *config.ProvidersConfig
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewPaymentUseCase creates a new payment use case
func NewPaymentUseCase(
	paymentRepo domain.PaymentRepository,
	memberRepo domain.MemberRepository,
	planRepo domain.PlanRepository,
	registry ProviderRegistry,
	publisher domain.EventPublisher,
	providers *config.ProvidersConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) domain.PaymentUseCase {
	return &paymentUseCase{
		paymentRepo: paymentRepo,
		memberRepo:  memberRepo,
		planRepo:    planRepo,
		registry:    registry,
		publisher:   publisher,
		providers:   providers,
		metrics:     m,
		logger:      logger,
	}
}

// ListPayments returns the unified payment view for a community owner
func (u *paymentUseCase) ListPayments(ctx context.Context, ownerID, communityID string) ([]domain.UnifiedPayment, error) {
	platform, err := u.paymentRepo.ListPlatformByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var project []domain.ProjectPayment
	if communityID != "" {
		project, err = u.paymentRepo.ListProjectByCommunity(ctx, communityID)
		if err != nil {
			return nil, err
		}
	}

	return Reconcile(platform, project), nil
}

// CreatePayment initiates a payment with the requested provider and records
// the pending raw payment
func (u *paymentUseCase) CreatePayment(ctx context.Context, req *domain.CreatePaymentRequest) (*domain.Invoice, error) {
	if req.CommunityID == "" {
		return nil, domain.ErrInvalidCommunityID
	}

	client, err := u.registry.ByName(req.Provider)
	if err != nil {
		return nil, err
	}

	plan, err := u.planRepo.GetByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	currency := plan.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	invoice, err := client.CreateInvoice(ctx, domain.InvoiceRequest{
		Amount:      plan.PriceCents,
		Currency:    currency,
		OrderID:     uuid.NewString(),
		Description: plan.Name,
		CallbackURL: u.providers.CallbackBaseURL + "/webhook",
	})
	if err != nil {
		u.metrics.ProviderErrors.WithLabelValues(string(req.Provider)).Inc()
		return nil, err
	}

	payment := &domain.ProjectPayment{
		CommunityID:    req.CommunityID,
		TelegramUserID: req.TelegramUserID,
		PlanID:         &plan.ID,
		PlanName:       plan.Name,
		Amount:         plan.PriceCents,
		Currency:       currency,
		Status:         domain.PaymentPending,
		Provider:       req.Provider,
		InvoiceID:      invoice.InvoiceID,
	}

	if member, err := u.memberRepo.GetByTelegramID(ctx, req.CommunityID, req.TelegramUserID); err == nil {
		payment.TelegramUsername = member.TelegramUsername
	}

	inserted, err := u.paymentRepo.CreateProjectPayment(ctx, payment)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, domain.ErrDuplicatePayment
	}

	u.metrics.PaymentsCreatedTotal.WithLabelValues(string(req.Provider)).Inc()

	u.logger.Info().
		Str("community_id", req.CommunityID).
		Int64("telegram_user_id", req.TelegramUserID).
		Str("provider", string(req.Provider)).
		Str("invoice_id", invoice.InvoiceID).
		Msg("Payment created")

	return invoice, nil
}

// CompletePayment applies the completed transition and extends member access.
// Re-completing an already completed invoice is a no-op.
func (u *paymentUseCase) CompletePayment(ctx context.Context, invoiceID string) error {
	payment, err := u.paymentRepo.GetProjectPaymentByInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}

	if payment.Status == domain.PaymentCompleted {
		return nil
	}

	if payment.Status == domain.PaymentPending {
		if err := u.paymentRepo.UpdateProjectPaymentStatus(ctx, payment.ID, domain.PaymentProcessing); err != nil {
			return err
		}
	}

	if err := u.paymentRepo.UpdateProjectPaymentStatus(ctx, payment.ID, domain.PaymentCompleted); err != nil {
		return err
	}

	paidAt := time.Now()
	member, err := u.memberRepo.GetByTelegramID(ctx, payment.CommunityID, payment.TelegramUserID)
	if err != nil {
		if !errors.Is(err, domain.ErrMemberNotFound) {
			return err
		}
		// paid before joining the chat, register the membership now
		member = &domain.Member{
			CommunityID:    payment.CommunityID,
			TelegramUserID: payment.TelegramUserID,
			IsActive:       true,
			LastActiveAt:   paidAt,
		}
		if err := u.memberRepo.Upsert(ctx, member); err != nil {
			return err
		}
		member, err = u.memberRepo.GetByTelegramID(ctx, payment.CommunityID, payment.TelegramUserID)
		if err != nil {
			return err
		}
	}

	if err := u.memberRepo.SetLastPayment(ctx, member.ID, paidAt); err != nil {
		return err
	}

	u.metrics.PaymentsCompletedTotal.Inc()

	event := domain.PaymentEvent{
		Type:           domain.EventPaymentCompleted,
		InvoiceID:      invoiceID,
		CommunityID:    payment.CommunityID,
		TelegramUserID: payment.TelegramUserID,
		Amount:         payment.Amount,
		Currency:       payment.Currency,
		Provider:       payment.Provider,
		OccurredAt:     paidAt,
	}
	if err := u.publisher.Publish(ctx, domain.TopicPaymentEvents, invoiceID, event); err != nil {
		u.logger.Error().Err(err).
			Str("invoice_id", invoiceID).
			Msg("Failed to publish payment completed event")
	}

	u.logger.Info().
		Str("invoice_id", invoiceID).
		Str("community_id", payment.CommunityID).
		Msg("Payment completed")

	return nil
}

// ExpireStalePayments times out payments stuck in pending or processing
// for longer than olderThan. Completed payments are never expired; refund
// is their only exit.
func (u *paymentUseCase) ExpireStalePayments(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	expired, err := u.paymentRepo.ExpireStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if expired > 0 {
		u.logger.Info().
			Int64("expired", expired).
			Time("cutoff", cutoff).
			Msg("Stale payments expired")
	}

	return expired, nil
}

// RefundPayment applies the completed -> refunded transition
func (u *paymentUseCase) RefundPayment(ctx context.Context, invoiceID string) error {
	payment, err := u.paymentRepo.GetProjectPaymentByInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}

	if err := u.paymentRepo.UpdateProjectPaymentStatus(ctx, payment.ID, domain.PaymentRefunded); err != nil {
		return err
	}

	event := domain.PaymentEvent{
		Type:           domain.EventPaymentRefunded,
		InvoiceID:      invoiceID,
		CommunityID:    payment.CommunityID,
		TelegramUserID: payment.TelegramUserID,
		Amount:         payment.Amount,
		Currency:       payment.Currency,
		Provider:       payment.Provider,
		OccurredAt:     time.Now(),
	}
	if err := u.publisher.Publish(ctx, domain.TopicPaymentEvents, invoiceID, event); err != nil {
		u.logger.Error().Err(err).
			Str("invoice_id", invoiceID).
			Msg("Failed to publish payment refunded event")
	}

	u.logger.Info().
		Str("invoice_id", invoiceID).
		Msg("Payment refunded")

	return nil
}
