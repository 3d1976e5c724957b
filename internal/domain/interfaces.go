package domain

import (
	"context"
	"time"
)

// CommunityRepository defines data access for communities
type CommunityRepository interface {
	// GetByID retrieves a community by its id
	GetByID(ctx context.Context, id string) (*Community, error)

	// GetByTelegramChatID retrieves the community bound to a Telegram chat
	GetByTelegramChatID(ctx context.Context, chatID int64) (*Community, error)

	// ListAll retrieves every community, used by the expiry sweeper
	ListAll(ctx context.Context) ([]Community, error)

	// Create creates a new community
	Create(ctx context.Context, community *Community) error
}

// MemberRepository defines data access for community members
type MemberRepository interface {
	// GetByID retrieves a member by id
	GetByID(ctx context.Context, id uint) (*Member, error)

	// GetByTelegramID retrieves a member of a community by Telegram user id
	GetByTelegramID(ctx context.Context, communityID string, telegramUserID int64) (*Member, error)

	// GetByCommunity retrieves all members of a community, suspended included
	GetByCommunity(ctx context.Context, communityID string) ([]Member, error)

	// Upsert creates the member or updates the existing row for the same
	// community/user pair
	Upsert(ctx context.Context, member *Member) error

	// UpdateStatus persists the derived status and activity flag
	UpdateStatus(ctx context.Context, id uint, status MemberStatus, isActive bool) error

	// SetLastPayment records a completed payment time for the member
	SetLastPayment(ctx context.Context, id uint, paidAt time.Time) error

	// MarkInactive soft-deletes the member; rows are never hard-deleted
	MarkInactive(ctx context.Context, id uint) error
}

// PlanRepository defines data access for subscription plans
type PlanRepository interface {
	// GetByID retrieves a plan by id
	GetByID(ctx context.Context, id uint) (*SubscriptionPlan, error)

	// GetByCommunity retrieves all plans of a community
	GetByCommunity(ctx context.Context, communityID string) ([]SubscriptionPlan, error)

	// Create creates a new plan
	Create(ctx context.Context, plan *SubscriptionPlan) error

	// Update updates an existing plan
	Update(ctx context.Context, plan *SubscriptionPlan) error

	// Delete removes a plan. Historical payments keep their denormalized
	// plan name, so deletion never orphans payment records.
	Delete(ctx context.Context, id uint) error
}

// PaymentRepository defines data access for both raw payment sources
type PaymentRepository interface {
	// CreatePlatformPayment inserts a platform payment; reports false when a
	// record with the same invoice id already exists
	CreatePlatformPayment(ctx context.Context, payment *PlatformPayment) (inserted bool, err error)

	// CreateProjectPayment inserts a project payment; reports false when a
	// record with the same invoice id already exists
	CreateProjectPayment(ctx context.Context, payment *ProjectPayment) (inserted bool, err error)

	// GetProjectPaymentByInvoice retrieves a project payment by invoice id
	GetProjectPaymentByInvoice(ctx context.Context, invoiceID string) (*ProjectPayment, error)

	// UpdatePlatformPaymentStatus applies a forward-only status transition
	UpdatePlatformPaymentStatus(ctx context.Context, id uint, next PaymentStatus) error

	// UpdateProjectPaymentStatus applies a forward-only status transition
	UpdateProjectPaymentStatus(ctx context.Context, id uint, next PaymentStatus) error

	// ListPlatformByOwner retrieves platform payments of an owner, newest first
	ListPlatformByOwner(ctx context.Context, ownerID string) ([]PlatformPayment, error)

	// ListProjectByCommunity retrieves project payments of a community, newest first
	ListProjectByCommunity(ctx context.Context, communityID string) ([]ProjectPayment, error)

	// ExpireStale moves pending and processing payments created before the
	// cutoff to expired, across both sources; reports how many rows changed
	ExpireStale(ctx context.Context, before time.Time) (int64, error)
}

// BroadcastRepository persists broadcast audit records
type BroadcastRepository interface {
	// Save stores the result of a dispatched broadcast
	Save(ctx context.Context, status *BroadcastStatus) error

	// GetByEventID retrieves the recorded result for a logical broadcast request
	GetByEventID(ctx context.Context, eventID string) (*BroadcastStatus, error)
}

// EventDedupStore remembers processed webhook event ids so that at-least-once
// redelivery never double-applies side effects
type EventDedupStore interface {
	// MarkProcessed records the event id and reports whether this delivery
	// is the first one seen
	MarkProcessed(ctx context.Context, eventID string) (first bool, err error)

	// Unmark forgets the event id. Used when processing fails before any
	// side effect ran, so a retry can go through.
	Unmark(ctx context.Context, eventID string) error
}

// MessageSender delivers messages to Telegram chats and enforces removals
type MessageSender interface {
	// SendMessage sends a text message, optionally with a CTA button
	SendMessage(ctx context.Context, chatID int64, text string, button *CTAButton) error

	// RemoveFromChat removes a user from a group chat
	RemoveFromChat(ctx context.Context, chatID int64, userID int64) error
}

// EventPublisher publishes audit events to the message broker
type EventPublisher interface {
	// Publish sends one event to a topic, keyed for partition ordering
	Publish(ctx context.Context, topic string, key string, event any) error

	// Close closes the publisher
	Close() error
}

// ProviderClient creates payment invoices with an external payment provider
type ProviderClient interface {
	// Name returns the provider this client talks to
	Name() PaymentProvider

	// CreateInvoice creates a payment/invoice and returns the redirect URL
	CreateInvoice(ctx context.Context, req InvoiceRequest) (*Invoice, error)
}

// InvoiceRequest is the outbound payment creation request
type InvoiceRequest struct {
	Amount      int64
	Currency    string
	OrderID     string
	Description string
	CallbackURL string
}

// Invoice is the provider's answer to an invoice creation
type Invoice struct {
	InvoiceID  string
	PaymentURL string
}

// StatusUseCase evaluates and enforces member subscription status
type StatusUseCase interface {
	// CheckMember evaluates one member, persists the derived flags and
	// enforces the expired transition (idempotent)
	CheckMember(ctx context.Context, communityID string, telegramUserID int64) (*StatusResult, error)

	// SweepCommunity re-evaluates every member of a community
	SweepCommunity(ctx context.Context, communityID string) (expired int, err error)
}

// BroadcastUseCase resolves audiences and dispatches broadcasts
type BroadcastUseCase interface {
	// SendBroadcast dispatches one broadcast request. Redelivery of the same
	// event id returns the recorded result without sending again.
	SendBroadcast(ctx context.Context, req *BroadcastRequest) (*BroadcastStatus, error)
}

// PaymentUseCase reconciles and mutates payments
type PaymentUseCase interface {
	// ListPayments returns the unified payment view for a community owner
	ListPayments(ctx context.Context, ownerID, communityID string) ([]UnifiedPayment, error)

	// CreatePayment initiates a payment with the requested provider
	CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*Invoice, error)

	// CompletePayment applies the completed transition and extends member access
	CompletePayment(ctx context.Context, invoiceID string) error

	// RefundPayment applies the completed -> refunded transition
	RefundPayment(ctx context.Context, invoiceID string) error

	// ExpireStalePayments times out payments stuck in pending or processing
	// for longer than olderThan
	ExpireStalePayments(ctx context.Context, olderThan time.Duration) (int64, error)
}

// CreatePaymentRequest initiates a member payment for a plan
type CreatePaymentRequest struct {
	CommunityID    string          `json:"community_id"`
	TelegramUserID int64           `json:"telegram_user_id"`
	PlanID         uint            `json:"plan_id"`
	Provider       PaymentProvider `json:"provider"`
}

// MembershipUseCase tracks joins and leaves coming from bot updates
type MembershipUseCase interface {
	// HandleJoin registers or reactivates a member who joined via the bot
	HandleJoin(ctx context.Context, chatID int64, telegramUserID int64, username string) error

	// HandleLeave soft-marks a member inactive after leaving the chat
	HandleLeave(ctx context.Context, chatID int64, telegramUserID int64) error
}
