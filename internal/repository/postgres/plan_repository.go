package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
)

// planRepository implements domain.PlanRepository
type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *gorm.DB) domain.PlanRepository {
	return &planRepository{
		db: db,
	}
}

// GetByID retrieves a plan by id
func (r *planRepository) GetByID(ctx context.Context, id uint) (*domain.SubscriptionPlan, error) {
	var plan domain.SubscriptionPlan
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&plan)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, domain.ErrDatabaseOperation
	}

	return &plan, nil
}

// GetByCommunity retrieves all plans of a community
func (r *planRepository) GetByCommunity(ctx context.Context, communityID string) ([]domain.SubscriptionPlan, error) {
	var plans []domain.SubscriptionPlan
	result := r.db.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("price_cents ASC").
		Find(&plans)

	if result.Error != nil {
		return nil, domain.ErrDatabaseOperation
	}

	return plans, nil
}

// Create creates a new plan
func (r *planRepository) Create(ctx context.Context, plan *domain.SubscriptionPlan) error {
	if !plan.Interval.Valid() {
		return domain.ErrInvalidInterval
	}
	if plan.PriceCents < 0 {
		return domain.ErrInvalidPrice
	}

	result := r.db.WithContext(ctx).Create(plan)
	if result.Error != nil {
		return domain.ErrDatabaseOperation
	}

	return nil
}

// Update updates an existing plan
func (r *planRepository) Update(ctx context.Context, plan *domain.SubscriptionPlan) error {
	if !plan.Interval.Valid() {
		return domain.ErrInvalidInterval
	}
	if plan.PriceCents < 0 {
		return domain.ErrInvalidPrice
	}

	result := r.db.WithContext(ctx).
		Model(&domain.SubscriptionPlan{}).
		Where("id = ?", plan.ID).
		Updates(plan)

	if result.Error != nil {
		return domain.ErrDatabaseOperation
	}

	if result.RowsAffected == 0 {
		return domain.ErrPlanNotFound
	}

	return nil
}

// Delete removes a plan. Payment rows keep the denormalized plan name, so
// history stays readable after deletion.
func (r *planRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.SubscriptionPlan{})

	if result.Error != nil {
		return domain.ErrDatabaseOperation
	}

	if result.RowsAffected == 0 {
		return domain.ErrPlanNotFound
	}

	return nil
}
