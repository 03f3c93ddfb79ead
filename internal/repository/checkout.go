package repository

import (
	"context"
	"errors"

	"course-checkout/internal/model"

	"gorm.io/gorm"
)

type CheckoutRepository interface {
	Save(ctx context.Context, rec *model.CheckoutRecord) error
	FindByCheckoutID(ctx context.Context, checkoutID string) (*model.CheckoutRecord, error)
	FindLatestOpen(ctx context.Context, userID string) (*model.CheckoutRecord, error)
}

type checkoutRepoImpl struct {
	db *gorm.DB
}

func NewCheckoutRepository(db *gorm.DB) CheckoutRepository {
	return &checkoutRepoImpl{
		db: db,
	}
}

func (r *checkoutRepoImpl) Save(ctx context.Context, rec *model.CheckoutRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *checkoutRepoImpl) FindByCheckoutID(ctx context.Context, checkoutID string) (*model.CheckoutRecord, error) {
	var rec model.CheckoutRecord
	err := r.db.WithContext(ctx).
		Where("checkout_id = ?", checkoutID).
		First(&rec).Error

	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// FindLatestOpen returns the most recent checkout for the user that has an
// order and has not finished, i.e. the one worth resuming after a reload.
func (r *checkoutRepoImpl) FindLatestOpen(ctx context.Context, userID string) (*model.CheckoutRecord, error) {
	var rec model.CheckoutRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("order_id <> ''").
		Where("state NOT IN ?", []string{"succeeded", "cancelled"}).
		Order("updated_at DESC").
		First(&rec).Error

	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// IsNotFound reports whether err means the record does not exist, so callers
// do not need to import gorm.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
