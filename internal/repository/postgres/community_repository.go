package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
)

// communityRepository implements domain.CommunityRepository
type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository creates a new community repository
func NewCommunityRepository(db *gorm.DB) domain.CommunityRepository {
	return &communityRepository{
		db: db,
	}
}

// GetByID retrieves a community by its id
func (r *communityRepository) GetByID(ctx context.Context, id string) (*domain.Community, error) {
	var community domain.Community
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&community)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCommunityNotFound
		}
		return nil, domain.ErrDatabaseOperation
	}

	return &community, nil
}

// GetByTelegramChatID retrieves the community bound to a Telegram chat
func (r *communityRepository) GetByTelegramChatID(ctx context.Context, chatID int64) (*domain.Community, error) {
	var community domain.Community
	result := r.db.WithContext(ctx).
		Where("telegram_chat_id = ?", chatID).
		First(&community)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCommunityNotFound
		}
		return nil, domain.ErrDatabaseOperation
	}

	return &community, nil
}

// ListAll retrieves every community, used by the expiry sweeper
func (r *communityRepository) ListAll(ctx context.Context) ([]domain.Community, error) {
	var communities []domain.Community
	result := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&communities)

	if result.Error != nil {
		return nil, domain.ErrDatabaseOperation
	}

	return communities, nil
}

// Create creates a new community
func (r *communityRepository) Create(ctx context.Context, community *domain.Community) error {
	result := r.db.WithContext(ctx).Create(community)
	if result.Error != nil {
		return domain.ErrDatabaseOperation
	}
	return nil
}
