package domain

import "time"

// Kafka topics for audit events
const (
	TopicPaymentEvents    = "membify.payments"
	TopicBroadcastEvents  = "membify.broadcasts"
	TopicMembershipEvents = "membify.members"
)

// Event types published to the broker
const (
	EventPaymentCompleted   = "payment.completed"
	EventPaymentRefunded    = "payment.refunded"
	EventBroadcastCompleted = "broadcast.completed"
	EventMemberJoined       = "member.joined"
	EventMemberLeft         = "member.left"
	EventMemberExpired      = "member.expired"
)

// PaymentEvent is published on payment state changes
type PaymentEvent struct {
	Type           string          `json:"type"`
	InvoiceID      string          `json:"invoice_id"`
	CommunityID    string          `json:"community_id,omitempty"`
	TelegramUserID int64           `json:"telegram_user_id,omitempty"`
	Amount         int64           `json:"amount"`
	Currency       string          `json:"currency"`
	Provider       PaymentProvider `json:"provider"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// BroadcastEvent is published when a broadcast finishes dispatching
type BroadcastEvent struct {
	Type            string         `json:"type"`
	EventID         string         `json:"event_id"`
	CommunityID     string         `json:"community_id"`
	FilterType      AudienceFilter `json:"filter_type"`
	TotalRecipients int            `json:"total_recipients"`
	SentCount       int            `json:"sent_count"`
	FailedCount     int            `json:"failed_count"`
	OccurredAt      time.Time      `json:"occurred_at"`
}

// MembershipEvent is published on member lifecycle changes
type MembershipEvent struct {
	Type           string       `json:"type"`
	CommunityID    string       `json:"community_id"`
	TelegramUserID int64        `json:"telegram_user_id"`
	Status         MemberStatus `json:"status"`
	OccurredAt     time.Time    `json:"occurred_at"`
}
