package postgresql

import (
	"context"
	"errors"
	"fmt"

	"shiningstar-api/res/store"

	"gorm.io/gorm"
)

type couponStore struct {
	*storeImpl
}

func NewCouponStore(rootStore *storeImpl) *couponStore {
	return &couponStore{storeImpl: rootStore}
}

func (cs *couponStore) GetByCode(ctx context.Context, code string) (*store.Coupon, error) {
	var coupon store.Coupon
	result := cs.db.WithContext(ctx).
		Where("code = ? AND is_active = ?", code, true).
		First(&coupon)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrCouponNotFound
		}
		return nil, result.Error
	}
	return &coupon, nil
}

// Redeem advances used_count with a single conditional UPDATE so the usage
// limit holds under concurrent redemptions. A read-then-write here would let
// two racing requests both pass the limit check.
func (cs *couponStore) Redeem(ctx context.Context, code string) error {
	result := cs.db.WithContext(ctx).Model(&store.Coupon{}).
		Where("code = ? AND is_active = ?", code, true).
		Where("usage_limit IS NULL OR used_count < usage_limit").
		Update("used_count", gorm.Expr("used_count + 1"))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		// Distinguish a missing code from an exhausted one for telemetry
		var count int64
		if err := cs.db.WithContext(ctx).Model(&store.Coupon{}).
			Where("code = ? AND is_active = ?", code, true).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return store.ErrCouponNotFound
		}
		return store.ErrCouponExhausted
	}
	return nil
}

func (cs *couponStore) Create(ctx context.Context, coupon *store.Coupon) error {
	result := cs.db.WithContext(ctx).Create(coupon)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return store.ErrUniqueViolation
		}
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("failed to create coupon")
	}
	return nil
}

func (cs *couponStore) Update(ctx context.Context, coupon *store.Coupon) error {
	updates := map[string]interface{}{
		"discount_type":    coupon.DiscountType,
		"discount_value":   coupon.DiscountValue,
		"max_discount":     coupon.MaxDiscount,
		"min_order_amount": coupon.MinOrderAmount,
		"valid_from":       coupon.ValidFrom,
		"valid_until":      coupon.ValidUntil,
		"usage_limit":      coupon.UsageLimit,
		"is_active":        coupon.IsActive,
	}

	result := cs.db.WithContext(ctx).Model(&store.Coupon{}).
		Where("code = ?", coupon.Code).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("coupon not found (code: %s)", coupon.Code)
	}
	return nil
}
