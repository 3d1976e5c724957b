package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
)

// memberRepository implements domain.MemberRepository
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) domain.MemberRepository {
	return &memberRepository{
		db: db,
	}
}

// GetByID retrieves a member by id
func (r *memberRepository) GetByID(ctx context.Context, id uint) (*domain.Member, error) {
	var member domain.Member
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&member)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, domain.ErrDatabaseOperation
	}

	return &member, nil
}

// GetByTelegramID retrieves a member of a community by Telegram user id
func (r *memberRepository) GetByTelegramID(ctx context.Context, communityID string, telegramUserID int64) (*domain.Member, error) {
	var member domain.Member
	result := r.db.WithContext(ctx).
		Where("community_id = ? AND telegram_user_id = ?", communityID, telegramUserID).
		First(&member)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, domain.ErrDatabaseOperation
	}

	return &member, nil
}

// GetByCommunity retrieves all members of a community, suspended included
func (r *memberRepository) GetByCommunity(ctx context.Context, communityID string) ([]domain.Member, error) {
	var members []domain.Member
	result := r.db.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("joined_at ASC").
		Find(&members)

	if result.Error != nil {
		return nil, domain.ErrDatabaseOperation
	}

	return members, nil
}

// Upsert creates the member or updates the existing row for the same
// community/user pair
func (r *memberRepository) Upsert(ctx context.Context, member *domain.Member) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "community_id"}, {Name: "telegram_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"telegram_username", "is_active", "last_active_at", "updated_at",
			}),
		}).
		Create(member)

	if result.Error != nil {
		return domain.ErrDatabaseOperation
	}

	return nil
}

// UpdateStatus persists the derived status and activity flag
func (r *memberRepository) UpdateStatus(ctx context.Context, id uint, status domain.MemberStatus, isActive bool) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"subscription_status": status,
			"is_active":           isActive,
		})

	if result.Error != nil {
		return domain.ErrDatabaseOperation
	}

	if result.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}

	return nil
}

// SetLastPayment records a completed payment time for the member
func (r *memberRepository) SetLastPayment(ctx context.Context, id uint, paidAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_payment_at":     paidAt,
			"subscription_status": domain.MemberStatusActive,
			"is_active":           true,
		})

	if result.Error != nil {
		return domain.ErrDatabaseOperation
	}

	if result.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}

	return nil
}

// MarkInactive soft-deletes the member; rows are never hard-deleted
func (r *memberRepository) MarkInactive(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("id = ?", id).
		Update("is_active", false)

	if result.Error != nil {
		return domain.ErrDatabaseOperation
	}

	if result.RowsAffected == 0 {
		return domain.ErrMemberNotFound
	}

	return nil
}
