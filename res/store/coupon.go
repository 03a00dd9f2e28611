package store

import (
	"context"
	"time"

	"shiningstar-api/res/pricing"
)

// Coupon is a redeemable discount code. UsedCount is a mutable counter and
// must only ever be advanced through Redeem.
type Coupon struct {
	Code string `gorm:"primaryKey;size:50;unique"`

	DiscountType  pricing.DiscountType `gorm:"size:20;not null"`
	DiscountValue float64              `gorm:"not null"`

	// Optional caps
	MaxDiscount    *float64 // percentage type only
	MinOrderAmount *float64

	// Validity window
	ValidFrom  time.Time `gorm:"not null"`
	ValidUntil time.Time `gorm:"not null;index:idx_coupon_valid_until"`

	// Usage tracking
	UsageLimit *int `gorm:""` // nil = unlimited
	UsedCount  int  `gorm:"not null;default:0"`

	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null"`
}

// PricingCoupon converts the row into the pricing engine's reference shape
func (c *Coupon) PricingCoupon() *pricing.Coupon {
	return &pricing.Coupon{
		Code:           c.Code,
		Type:           c.DiscountType,
		Value:          c.DiscountValue,
		MaxDiscount:    c.MaxDiscount,
		MinOrderAmount: c.MinOrderAmount,
		ValidFrom:      c.ValidFrom,
		ValidUntil:     c.ValidUntil,
		UsageLimit:     c.UsageLimit,
		UsedCount:      c.UsedCount,
	}
}

// CouponStore defines the data access interface for coupons
type CouponStore interface {
	// GetByCode retrieves an active coupon by its code
	GetByCode(ctx context.Context, code string) (*Coupon, error)

	// Redeem advances the usage counter with a single conditional update.
	// Returns ErrCouponExhausted when the usage limit has been reached, so
	// concurrent redemptions can never exceed it.
	Redeem(ctx context.Context, code string) error

	// Create creates a new coupon
	Create(ctx context.Context, coupon *Coupon) error

	// Update updates a coupon's definition (not its usage counter)
	Update(ctx context.Context, coupon *Coupon) error
}
