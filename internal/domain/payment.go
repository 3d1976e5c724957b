package domain

import (
	"time"
)

// PaymentStatus is the lifecycle state of a payment.
// Transitions move forward only: pending -> processing -> {completed, failed};
// completed -> refunded; any non-terminal state may expire on timeout.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
	PaymentExpired    PaymentStatus = "expired"
)

// Terminal reports whether no further transition is allowed
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentFailed, PaymentRefunded, PaymentExpired:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the transition s -> next is legal
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	if s == next {
		return false
	}
	switch s {
	case PaymentPending:
		return next == PaymentProcessing || next == PaymentExpired
	case PaymentProcessing:
		return next == PaymentCompleted || next == PaymentFailed || next == PaymentExpired
	case PaymentCompleted:
		return next == PaymentRefunded
	default:
		return false
	}
}

// PaymentProvider identifies the external payment collaborator
type PaymentProvider string

const (
	ProviderStripe      PaymentProvider = "stripe"
	ProviderPayPal      PaymentProvider = "paypal"
	ProviderNOWPayments PaymentProvider = "nowpayments"
	ProviderTelegram    PaymentProvider = "telegram"
)

// PaymentSource discriminates the two raw payment record shapes
type PaymentSource string

const (
	SourcePlatform PaymentSource = "platform"
	SourceProject  PaymentSource = "project"
)

// PlatformPayment is a raw platform-level subscription payment
// (a community owner paying for the Membify platform itself)
type PlatformPayment struct {
	ID         uint            `gorm:"primaryKey"`
	OwnerID    string          `gorm:"not null;index"`
	PlanID     *uint           `gorm:"index"`
	PlanName   string          `gorm:""`
	Amount     int64           `gorm:"not null"`
	Currency   string          `gorm:""`
	Status     PaymentStatus   `gorm:"type:varchar(16);not null;default:pending"`
	Provider   PaymentProvider `gorm:"type:varchar(16);not null"`
	InvoiceID  string          `gorm:"not null;uniqueIndex"`
	PayerName  string          `gorm:""`
	PayerEmail string          `gorm:""`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

// TableName returns the table name for PlatformPayment
func (PlatformPayment) TableName() string {
	return "platform_payments"
}

// ProjectPayment is a raw per-member payment inside a community.
// PlanName is denormalized so that deleting a plan does not orphan history.
type ProjectPayment struct {
	ID               uint            `gorm:"primaryKey"`
	CommunityID      string          `gorm:"not null;index"`
	TelegramUserID   int64           `gorm:"not null;index"`
	TelegramUsername string          `gorm:""`
	PlanID           *uint           `gorm:"index"`
	PlanName         string          `gorm:""`
	Amount           int64           `gorm:"not null"`
	Currency         string          `gorm:""`
	Status           PaymentStatus   `gorm:"type:varchar(16);not null;default:pending"`
	Provider         PaymentProvider `gorm:"type:varchar(16);not null"`
	InvoiceID        string          `gorm:"not null;uniqueIndex"`
	CreatedAt        time.Time       `gorm:"autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime"`
}

// TableName returns the table name for ProjectPayment
func (ProjectPayment) TableName() string {
	return "project_payments"
}

// UnknownPayerName is shown when a raw record has no resolvable payer
const UnknownPayerName = "Unknown"

// Payer identifies who paid, across both record shapes
type Payer struct {
	ID         string `json:"id,omitempty"`
	TelegramID int64  `json:"telegram_id,omitempty"`
	Name       string `json:"name"`
}

// UnifiedPayment is the reconciled projection over both raw payment sources
type UnifiedPayment struct {
	Type        PaymentSource   `json:"type"`
	ID          uint            `json:"id"`
	Amount      int64           `json:"amount"`
	Currency    string          `json:"currency"`
	Status      PaymentStatus   `json:"status"`
	Provider    PaymentProvider `json:"provider"`
	Payer       Payer           `json:"payer"`
	CommunityID string          `json:"community_id,omitempty"`
	PlanID      *uint           `json:"plan_id,omitempty"`
	PlanName    string          `json:"plan_name,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
