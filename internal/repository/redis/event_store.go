// Package redis implements the webhook dedup store on Redis
package redis

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
	"github.com/adiel098/subscribely-serenity-sub007/internal/infrastructure/cache"
)

// eventStore implements domain.EventDedupStore via SETNX with a TTL
type eventStore struct {
	cache  *cache.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewEventStore creates a new dedup store. The TTL bounds the dedup window;
// a redelivery after the window is treated as a new event.
func NewEventStore(cache *cache.Client, ttl time.Duration, logger zerolog.Logger) domain.EventDedupStore {
	return &eventStore{
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// MarkProcessed records the event id and reports whether this delivery is
// the first one seen
func (s *eventStore) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	key := s.cache.Key("webhook", "event", eventID)

	first, err := s.cache.SetNX(ctx, key, "1", s.ttl)
	if err != nil {
		return false, err
	}

	if !first {
		s.logger.Debug().Str("event_id", eventID).Msg("duplicate webhook event")
	}

	return first, nil
}

// Unmark forgets the event id so a retry is treated as a first delivery
func (s *eventStore) Unmark(ctx context.Context, eventID string) error {
	return s.cache.Del(ctx, s.cache.Key("webhook", "event", eventID))
}
