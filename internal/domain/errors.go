package domain

import "errors"

var (
	// ErrMemberNotFound is returned when a member lookup finds nothing
	ErrMemberNotFound = errors.New("member not found")

	// ErrPlanNotFound is returned when a plan lookup finds nothing
	ErrPlanNotFound = errors.New("plan not found")

	// ErrCommunityNotFound is returned when a community lookup finds nothing
	ErrCommunityNotFound = errors.New("community not found")

	// ErrPaymentNotFound is returned when a payment lookup finds nothing
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrBroadcastNotFound is returned when a broadcast record lookup finds nothing
	ErrBroadcastNotFound = errors.New("broadcast not found")

	// ErrInvalidCommunityID is returned when a community id is missing
	ErrInvalidCommunityID = errors.New("invalid community ID")

	// ErrInvalidMemberID is returned when a member id is invalid
	ErrInvalidMemberID = errors.New("invalid member ID")

	// ErrInvalidInterval is returned when a plan interval is outside the enumerated set
	ErrInvalidInterval = errors.New("invalid plan interval")

	// ErrInvalidPrice is returned when a plan price is negative
	ErrInvalidPrice = errors.New("plan price must be non-negative")

	// ErrInvalidFilter is returned when an audience filter is outside the enumerated set
	ErrInvalidFilter = errors.New("invalid audience filter")

	// ErrEmptyMessage is returned when a broadcast carries no message body
	ErrEmptyMessage = errors.New("broadcast message is empty")

	// ErrInvalidTransition is returned when a payment status update would move backwards
	ErrInvalidTransition = errors.New("invalid payment status transition")

	// ErrDuplicatePayment is returned when a payment with the same invoice id already exists
	ErrDuplicatePayment = errors.New("payment already recorded")

	// ErrUnknownProvider is returned when no client matches the requested provider
	ErrUnknownProvider = errors.New("unknown payment provider")

	// ErrUnhandledRoute is returned when a webhook path matches no handler
	ErrUnhandledRoute = errors.New("unhandled route")

	// ErrStatusUnavailable is returned when the timestamp source cannot be read;
	// the member status is "unknown", not active and not expired
	ErrStatusUnavailable = errors.New("subscription status unavailable")

	// ErrDatabaseOperation is returned when a database operation fails
	ErrDatabaseOperation = errors.New("database operation failed")
)
