package domain

import (
	"time"
)

// MemberStatus classifies a member's access to a community
type MemberStatus string

const (
	MemberStatusActive  MemberStatus = "active"
	MemberStatusTrial   MemberStatus = "trial"
	MemberStatusExpired MemberStatus = "expired"
	// MemberStatusUnknown is reported when the timestamp source is
	// unavailable. The caller decides retry policy; access is never granted
	// on unknown.
	MemberStatusUnknown MemberStatus = "unknown"
)

// PlanInterval is a renewal period of a subscription plan
type PlanInterval string

const (
	IntervalMonthly    PlanInterval = "monthly"
	IntervalQuarterly  PlanInterval = "quarterly"
	IntervalHalfYearly PlanInterval = "half-yearly"
	IntervalYearly     PlanInterval = "yearly"
	IntervalOneTime    PlanInterval = "one-time"
)

// Duration returns the access window granted by one paid period.
// The second result is false for one-time plans, which never expire.
func (i PlanInterval) Duration() (time.Duration, bool) {
	switch i {
	case IntervalMonthly:
		return 30 * 24 * time.Hour, true
	case IntervalQuarterly:
		return 90 * 24 * time.Hour, true
	case IntervalHalfYearly:
		return 182 * 24 * time.Hour, true
	case IntervalYearly:
		return 365 * 24 * time.Hour, true
	case IntervalOneTime:
		return 0, false
	default:
		return 0, true
	}
}

// Valid reports whether the interval is one of the enumerated set
func (i PlanInterval) Valid() bool {
	switch i {
	case IntervalMonthly, IntervalQuarterly, IntervalHalfYearly, IntervalYearly, IntervalOneTime:
		return true
	default:
		return false
	}
}

// Community represents a tenant's managed Telegram group
type Community struct {
	ID             string    `gorm:"primaryKey;type:uuid"`
	OwnerID        string    `gorm:"not null;index"`
	Name           string    `gorm:"not null"`
	TelegramChatID int64     `gorm:"not null;uniqueIndex"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for Community
func (Community) TableName() string {
	return "communities"
}

// Member represents a user's relationship to a community.
// IsActive and SubscriptionStatus are derived values; the status evaluator is
// authoritative at read time. Members are never hard-deleted, only marked
// inactive.
type Member struct {
	ID                 uint         `gorm:"primaryKey"`
	CommunityID        string       `gorm:"not null;index:idx_member_community_user,unique;index"`
	TelegramUserID     int64        `gorm:"not null;index:idx_member_community_user,unique"`
	TelegramUsername   string       `gorm:""`
	PlanID             *uint        `gorm:"index"`
	SubscriptionStatus MemberStatus `gorm:"type:varchar(16);not null;default:expired"`
	IsActive           bool         `gorm:"not null;default:false"`
	IsSuspended        bool         `gorm:"not null;default:false"`
	LastPaymentAt      *time.Time
	TrialEndsAt        *time.Time
	LastActiveAt       time.Time
	JoinedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for Member
func (Member) TableName() string {
	return "community_members"
}

// OnTrial reports whether the member is in the no-payment trial phase
func (m *Member) OnTrial() bool {
	return m.LastPaymentAt == nil && m.TrialEndsAt != nil
}

// SubscriptionPlan is a pricing tier owned by a community
type SubscriptionPlan struct {
	ID          uint         `gorm:"primaryKey"`
	CommunityID string       `gorm:"not null;index"`
	Name        string       `gorm:"not null"`
	PriceCents  int64        `gorm:"not null"`
	Currency    string       `gorm:"not null;default:USD"`
	Interval    PlanInterval `gorm:"type:varchar(16);not null"`
	IsActive    bool         `gorm:"not null;default:true"`
	CreatedAt   time.Time    `gorm:"autoCreateTime"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime"`
}

// TableName returns the table name for SubscriptionPlan
func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

// AudienceFilter selects which members a broadcast targets
type AudienceFilter string

const (
	FilterAll     AudienceFilter = "all"
	FilterActive  AudienceFilter = "active"
	FilterExpired AudienceFilter = "expired"
)

// Valid reports whether the filter is one of the enumerated set
func (f AudienceFilter) Valid() bool {
	switch f {
	case FilterAll, FilterActive, FilterExpired:
		return true
	default:
		return false
	}
}

// CTAButton is an optional call-to-action button attached to a broadcast
type CTAButton struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// BroadcastRequest is an ephemeral command; only its result is persisted
type BroadcastRequest struct {
	EventID     string         `json:"event_id"`
	CommunityID string         `json:"community_id"`
	Message     string         `json:"message"`
	Filter      AudienceFilter `json:"filter_type"`
	Button      *CTAButton     `json:"button,omitempty"`
}

// BroadcastStatus is the persisted audit record of a dispatched broadcast
type BroadcastStatus struct {
	ID              string         `gorm:"primaryKey;type:uuid"`
	EventID         string         `gorm:"not null;uniqueIndex"`
	CommunityID     string         `gorm:"not null;index"`
	FilterType      AudienceFilter `gorm:"type:varchar(16);not null"`
	Message         string         `gorm:"not null"`
	TotalRecipients int            `gorm:"not null"`
	SentCount       int            `gorm:"not null"`
	FailedCount     int            `gorm:"not null"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
}

// TableName returns the table name for BroadcastStatus
func (BroadcastStatus) TableName() string {
	return "broadcast_statuses"
}

// StatusResult is the outcome of evaluating a member's subscription
type StatusResult struct {
	Status MemberStatus
	// ExpiresAt is set for time-bounded access (nil for one-time plans and
	// for unknown/expired results without a resolvable window).
	ExpiresAt *time.Time
}
