package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
)

// broadcastRepository implements domain.BroadcastRepository
type broadcastRepository struct {
	db *gorm.DB
}

// NewBroadcastRepository creates a new broadcast repository
func NewBroadcastRepository(db *gorm.DB) domain.BroadcastRepository {
	return &broadcastRepository{
		db: db,
	}
}

// Save stores the result of a dispatched broadcast
func (r *broadcastRepository) Save(ctx context.Context, status *domain.BroadcastStatus) error {
	result := r.db.WithContext(ctx).Create(status)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			// redelivery race: the first dispatch already recorded its result
			return nil
		}
		return domain.ErrDatabaseOperation
	}
	return nil
}

// GetByEventID retrieves the recorded result for a logical broadcast request
func (r *broadcastRepository) GetByEventID(ctx context.Context, eventID string) (*domain.BroadcastStatus, error) {
	var status domain.BroadcastStatus
	result := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		First(&status)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBroadcastNotFound
		}
		return nil, domain.ErrDatabaseOperation
	}

	return &status, nil
}
