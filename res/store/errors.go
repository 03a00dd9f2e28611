package store

import "errors"

var (
	ErrUniqueViolation = errors.New("store: duplicate key value violates unique constraint")
	ErrInvalidInput    = errors.New("store: invalid input")

	// Coupon redemption errors
	ErrCouponNotFound  = errors.New("store: coupon not found")
	ErrCouponExhausted = errors.New("store: coupon usage limit reached")

	// Slot booking errors
	ErrSlotTaken = errors.New("store: time slot is already booked")
)
