package usecase

import (
	"context"
	"time"

	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
)

// mockMemberRepo is a mock implementation of domain.MemberRepository
type mockMemberRepo struct {
	getByIDFunc         func(ctx context.Context, id uint) (*domain.Member, error)
	getByTelegramIDFunc func(ctx context.Context, communityID string, telegramUserID int64) (*domain.Member, error)
	getByCommunityFunc  func(ctx context.Context, communityID string) ([]domain.Member, error)
	upsertFunc          func(ctx context.Context, member *domain.Member) error
	updateStatusFunc    func(ctx context.Context, id uint, status domain.MemberStatus, isActive bool) error
	setLastPaymentFunc  func(ctx context.Context, id uint, paidAt time.Time) error
	markInactiveFunc    func(ctx context.Context, id uint) error

	updateStatusCalls   []updateStatusCall
	setLastPaymentCalls []uint
	markInactiveCalls   []uint
}

type updateStatusCall struct {
	id       uint
	status   domain.MemberStatus
	isActive bool
}

func (m *mockMemberRepo) GetByID(ctx context.Context, id uint) (*domain.Member, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrMemberNotFound
}

func (m *mockMemberRepo) GetByTelegramID(ctx context.Context, communityID string, telegramUserID int64) (*domain.Member, error) {
	if m.getByTelegramIDFunc != nil {
		return m.getByTelegramIDFunc(ctx, communityID, telegramUserID)
	}
	return nil, domain.ErrMemberNotFound
}

func (m *mockMemberRepo) GetByCommunity(ctx context.Context, communityID string) ([]domain.Member, error) {
	if m.getByCommunityFunc != nil {
		return m.getByCommunityFunc(ctx, communityID)
	}
	return nil, nil
}

func (m *mockMemberRepo) Upsert(ctx context.Context, member *domain.Member) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, member)
	}
	return nil
}

func (m *mockMemberRepo) UpdateStatus(ctx context.Context, id uint, status domain.MemberStatus, isActive bool) error {
	m.updateStatusCalls = append(m.updateStatusCalls, updateStatusCall{id: id, status: status, isActive: isActive})
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status, isActive)
	}
	return nil
}

func (m *mockMemberRepo) SetLastPayment(ctx context.Context, id uint, paidAt time.Time) error {
	m.setLastPaymentCalls = append(m.setLastPaymentCalls, id)
	if m.setLastPaymentFunc != nil {
		return m.setLastPaymentFunc(ctx, id, paidAt)
	}
	return nil
}

func (m *mockMemberRepo) MarkInactive(ctx context.Context, id uint) error {
	m.markInactiveCalls = append(m.markInactiveCalls, id)
	if m.markInactiveFunc != nil {
		return m.markInactiveFunc(ctx, id)
	}
	return nil
}

// mockCommunityRepo is a mock implementation of domain.CommunityRepository
type mockCommunityRepo struct {
	getByIDFunc             func(ctx context.Context, id string) (*domain.Community, error)
	getByTelegramChatIDFunc func(ctx context.Context, chatID int64) (*domain.Community, error)
	listAllFunc             func(ctx context.Context) ([]domain.Community, error)
}

func (m *mockCommunityRepo) GetByID(ctx context.Context, id string) (*domain.Community, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &domain.Community{ID: id, TelegramChatID: -100200300}, nil
}

func (m *mockCommunityRepo) GetByTelegramChatID(ctx context.Context, chatID int64) (*domain.Community, error) {
	if m.getByTelegramChatIDFunc != nil {
		return m.getByTelegramChatIDFunc(ctx, chatID)
	}
	return nil, domain.ErrCommunityNotFound
}

func (m *mockCommunityRepo) ListAll(ctx context.Context) ([]domain.Community, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockCommunityRepo) Create(ctx context.Context, community *domain.Community) error {
	return nil
}

// mockPlanRepo is a mock implementation of domain.PlanRepository
type mockPlanRepo struct {
	getByIDFunc        func(ctx context.Context, id uint) (*domain.SubscriptionPlan, error)
	getByCommunityFunc func(ctx context.Context, communityID string) ([]domain.SubscriptionPlan, error)
}

func (m *mockPlanRepo) GetByID(ctx context.Context, id uint) (*domain.SubscriptionPlan, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrPlanNotFound
}

func (m *mockPlanRepo) GetByCommunity(ctx context.Context, communityID string) ([]domain.SubscriptionPlan, error) {
	if m.getByCommunityFunc != nil {
		return m.getByCommunityFunc(ctx, communityID)
	}
	return nil, nil
}

func (m *mockPlanRepo) Create(ctx context.Context, plan *domain.SubscriptionPlan) error {
	return nil
}

func (m *mockPlanRepo) Update(ctx context.Context, plan *domain.SubscriptionPlan) error {
	return nil
}

func (m *mockPlanRepo) Delete(ctx context.Context, id uint) error {
	return nil
}

// mockPaymentRepo is a mock implementation of domain.PaymentRepository
type mockPaymentRepo struct {
	createPlatformFunc      func(ctx context.Context, payment *domain.PlatformPayment) (bool, error)
	createProjectFunc       func(ctx context.Context, payment *domain.ProjectPayment) (bool, error)
	getProjectByInvoiceFunc func(ctx context.Context, invoiceID string) (*domain.ProjectPayment, error)
	updatePlatformFunc      func(ctx context.Context, id uint, next domain.PaymentStatus) error
	updateProjectFunc       func(ctx context.Context, id uint, next domain.PaymentStatus) error
	listPlatformFunc        func(ctx context.Context, ownerID string) ([]domain.PlatformPayment, error)
	listProjectFunc         func(ctx context.Context, communityID string) ([]domain.ProjectPayment, error)
	expireStaleFunc         func(ctx context.Context, before time.Time) (int64, error)

	projectTransitions []domain.PaymentStatus
	expireStaleCutoffs []time.Time
}

func (m *mockPaymentRepo) CreatePlatformPayment(ctx context.Context, payment *domain.PlatformPayment) (bool, error) {
	if m.createPlatformFunc != nil {
		return m.createPlatformFunc(ctx, payment)
	}
	return true, nil
}

func (m *mockPaymentRepo) CreateProjectPayment(ctx context.Context, payment *domain.ProjectPayment) (bool, error) {
	if m.createProjectFunc != nil {
		return m.createProjectFunc(ctx, payment)
	}
	return true, nil
}

func (m *mockPaymentRepo) GetProjectPaymentByInvoice(ctx context.Context, invoiceID string) (*domain.ProjectPayment, error) {
	if m.getProjectByInvoiceFunc != nil {
		return m.getProjectByInvoiceFunc(ctx, invoiceID)
	}
	return nil, domain.ErrPaymentNotFound
}

func (m *mockPaymentRepo) UpdatePlatformPaymentStatus(ctx context.Context, id uint, next domain.PaymentStatus) error {
	if m.updatePlatformFunc != nil {
		return m.updatePlatformFunc(ctx, id, next)
	}
	return nil
}

func (m *mockPaymentRepo) UpdateProjectPaymentStatus(ctx context.Context, id uint, next domain.PaymentStatus) error {
	m.projectTransitions = append(m.projectTransitions, next)
	if m.updateProjectFunc != nil {
		return m.updateProjectFunc(ctx, id, next)
	}
	return nil
}

func (m *mockPaymentRepo) ListPlatformByOwner(ctx context.Context, ownerID string) ([]domain.PlatformPayment, error) {
	if m.listPlatformFunc != nil {
		return m.listPlatformFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockPaymentRepo) ListProjectByCommunity(ctx context.Context, communityID string) ([]domain.ProjectPayment, error) {
	if m.listProjectFunc != nil {
		return m.listProjectFunc(ctx, communityID)
	}
	return nil, nil
}

func (m *mockPaymentRepo) ExpireStale(ctx context.Context, before time.Time) (int64, error) {
	m.expireStaleCutoffs = append(m.expireStaleCutoffs, before)
	if m.expireStaleFunc != nil {
		return m.expireStaleFunc(ctx, before)
	}
	return 0, nil
}

// mockBroadcastRepo is a mock implementation of domain.BroadcastRepository
type mockBroadcastRepo struct {
	saveFunc         func(ctx context.Context, status *domain.BroadcastStatus) error
	getByEventIDFunc func(ctx context.Context, eventID string) (*domain.BroadcastStatus, error)

	saved []*domain.BroadcastStatus
}

func (m *mockBroadcastRepo) Save(ctx context.Context, status *domain.BroadcastStatus) error {
	m.saved = append(m.saved, status)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, status)
	}
	return nil
}

func (m *mockBroadcastRepo) GetByEventID(ctx context.Context, eventID string) (*domain.BroadcastStatus, error) {
	if m.getByEventIDFunc != nil {
		return m.getByEventIDFunc(ctx, eventID)
	}
	return nil, domain.ErrBroadcastNotFound
}

// mockDedupStore is a mock implementation of domain.EventDedupStore
type mockDedupStore struct {
	markProcessedFunc func(ctx context.Context, eventID string) (bool, error)

	seen     map[string]bool
	unmarked []string
}

func (m *mockDedupStore) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	if m.markProcessedFunc != nil {
		return m.markProcessedFunc(ctx, eventID)
	}
	if m.seen == nil {
		m.seen = make(map[string]bool)
	}
	if m.seen[eventID] {
		return false, nil
	}
	m.seen[eventID] = true
	return true, nil
}

func (m *mockDedupStore) Unmark(ctx context.Context, eventID string) error {
	m.unmarked = append(m.unmarked, eventID)
	delete(m.seen, eventID)
	return nil
}

// mockSender is a mock implementation of domain.MessageSender
type mockSender struct {
	sendMessageFunc func(ctx context.Context, chatID int64, text string, button *domain.CTAButton) error

	sentTo      []int64
	removedFrom []removeCall
}

type removeCall struct {
	chatID int64
	userID int64
}

func (m *mockSender) SendMessage(ctx context.Context, chatID int64, text string, button *domain.CTAButton) error {
	m.sentTo = append(m.sentTo, chatID)
	if m.sendMessageFunc != nil {
		return m.sendMessageFunc(ctx, chatID, text, button)
	}
	return nil
}

func (m *mockSender) RemoveFromChat(ctx context.Context, chatID int64, userID int64) error {
	m.removedFrom = append(m.removedFrom, removeCall{chatID: chatID, userID: userID})
	return nil
}

// mockPublisher is a mock implementation of domain.EventPublisher
type mockPublisher struct {
	published []publishedEvent
}

type publishedEvent struct {
	topic string
	key   string
	event any
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	m.published = append(m.published, publishedEvent{topic: topic, key: key, event: event})
	return nil
}

func (m *mockPublisher) Close() error {
	return nil
}

// mockProviderClient is a mock implementation of domain.ProviderClient
type mockProviderClient struct {
	name              domain.PaymentProvider
	createInvoiceFunc func(ctx context.Context, req domain.InvoiceRequest) (*domain.Invoice, error)
}

func (m *mockProviderClient) Name() domain.PaymentProvider {
	return m.name
}

func (m *mockProviderClient) CreateInvoice(ctx context.Context, req domain.InvoiceRequest) (*domain.Invoice, error) {
	if m.createInvoiceFunc != nil {
		return m.createInvoiceFunc(ctx, req)
	}
	return &domain.Invoice{InvoiceID: "inv-1", PaymentURL: "https://pay.example/inv-1"}, nil
}

// mockRegistry is a mock implementation of ProviderRegistry
type mockRegistry struct {
	client domain.ProviderClient
}

func (m *mockRegistry) ByName(provider domain.PaymentProvider) (domain.ProviderClient, error) {
	if m.client != nil && m.client.Name() == provider {
		return m.client, nil
	}
	return nil, domain.ErrUnknownProvider
}
