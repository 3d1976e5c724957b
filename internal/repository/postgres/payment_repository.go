package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/adiel098/subscribely-serenity-sub007/internal/domain"
)

// paymentRepository implements domain.PaymentRepository over both raw
// payment tables
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domain.PaymentRepository {
	return &paymentRepository{
		db: db,
	}
}

// CreatePlatformPayment inserts a platform payment; reports false when a
// record with the same invoice id already exists
func (r *paymentRepository) CreatePlatformPayment(ctx context.Context, payment *domain.PlatformPayment) (bool, error) {
	result := r.db.WithContext(ctx).Create(payment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, domain.ErrDatabaseOperation
	}
	return true, nil
}

// CreateProjectPayment inserts a project payment; reports false when a
// record with the same invoice id already exists
func (r *paymentRepository) CreateProjectPayment(ctx context.Context, payment *domain.ProjectPayment) (bool, error) {
	result := r.db.WithContext(ctx).Create(payment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, domain.ErrDatabaseOperation
	}
	return true, nil
}

// GetProjectPaymentByInvoice retrieves a project payment by invoice id
func (r *paymentRepository) GetProjectPaymentByInvoice(ctx context.Context, invoiceID string) (*domain.ProjectPayment, error) {
	var payment domain.ProjectPayment
	result := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		First(&payment)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, domain.ErrDatabaseOperation
	}

	return &payment, nil
}

// UpdatePlatformPaymentStatus applies a forward-only status transition
func (r *paymentRepository) UpdatePlatformPaymentStatus(ctx context.Context, id uint, next domain.PaymentStatus) error {
	var payment domain.PlatformPayment
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&payment)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return domain.ErrPaymentNotFound
		}
		return domain.ErrDatabaseOperation
	}

	return r.transition(ctx, &domain.PlatformPayment{}, id, payment.Status, next)
}

// UpdateProjectPaymentStatus applies a forward-only status transition
func (r *paymentRepository) UpdateProjectPaymentStatus(ctx context.Context, id uint, next domain.PaymentStatus) error {
	var payment domain.ProjectPayment
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&payment)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return domain.ErrPaymentNotFound
		}
		return domain.ErrDatabaseOperation
	}

	return r.transition(ctx, &domain.ProjectPayment{}, id, payment.Status, next)
}

// transition applies current -> next guarded by the state machine. The
// update is conditioned on the current status so a concurrent transition
// loses cleanly instead of overwriting.
func (r *paymentRepository) transition(ctx context.Context, model any, id uint, current, next domain.PaymentStatus) error {
	if !current.CanTransitionTo(next) {
		return domain.ErrInvalidTransition
	}

	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND status = ?", id, current).
		Update("status", next)

	if result.Error != nil {
		return domain.ErrDatabaseOperation
	}

	if result.RowsAffected == 0 {
		return domain.ErrInvalidTransition
	}

	return nil
}

// ExpireStale moves pending and processing payments created before the
// cutoff to expired, across both sources
func (r *paymentRepository) ExpireStale(ctx context.Context, before time.Time) (int64, error) {
	open := []domain.PaymentStatus{domain.PaymentPending, domain.PaymentProcessing}

	var total int64
	for _, model := range []any{&domain.PlatformPayment{}, &domain.ProjectPayment{}} {
		result := r.db.WithContext(ctx).
			Model(model).
			Where("status IN ? AND created_at < ?", open, before).
			Update("status", domain.PaymentExpired)

		if result.Error != nil {
			return total, domain.ErrDatabaseOperation
		}
		total += result.RowsAffected
	}

	return total, nil
}

// ListPlatformByOwner retrieves platform payments of an owner, newest first
func (r *paymentRepository) ListPlatformByOwner(ctx context.Context, ownerID string) ([]domain.PlatformPayment, error) {
	var payments []domain.PlatformPayment
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&payments)

	if result.Error != nil {
		return nil, domain.ErrDatabaseOperation
	}

	return payments, nil
}

// ListProjectByCommunity retrieves project payments of a community, newest first
func (r *paymentRepository) ListProjectByCommunity(ctx context.Context, communityID string) ([]domain.ProjectPayment, error) {
	var payments []domain.ProjectPayment
	result := r.db.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("created_at DESC").
		Find(&payments)

	if result.Error != nil {
		return nil, domain.ErrDatabaseOperation
	}

	return payments, nil
}
