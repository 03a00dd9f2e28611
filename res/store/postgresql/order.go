package postgresql

import (
	"context"
	"fmt"
	"time"

	"shiningstar-api/res/store"

	"gorm.io/gorm"
)

type orderStore struct {
	*storeImpl
}

func NewOrderStore(rootStore *storeImpl) *orderStore {
	return &orderStore{storeImpl: rootStore}
}

// MUTATIONS

// Create persists the order and its items in one transaction. The overlap
// check runs inside the same transaction, so two concurrent attempts on the
// same window cannot both succeed, and cancelled orders never block a slot.
func (os *orderStore) Create(ctx context.Context, order *store.Order) error {
	return os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conflict, err := hasSlotConflict(tx, order.ScheduledDate, order.ScheduledStartTime, order.ScheduledEndTime)
		if err != nil {
			return err
		}
		if conflict {
			return store.ErrSlotTaken
		}

		result := tx.Create(order)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("failed to create order")
		}
		return nil
	})
}

func (os *orderStore) UpdateStatus(ctx context.Context, orderID string, status store.OrderStatus) error {
	result := os.db.WithContext(ctx).Model(&store.Order{}).
		Where("id = ?", orderID).
		Update("status", status)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("order not found (id: %s)", orderID)
	}
	return nil
}

func (os *orderStore) AttachPaymentIntent(ctx context.Context, orderID, paymentIntentID string) error {
	result := os.db.WithContext(ctx).Model(&store.Order{}).
		Where("id = ?", orderID).
		Update("stripe_payment_intent_id", paymentIntentID)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("order not found (id: %s)", orderID)
	}
	return nil
}

func (os *orderStore) MarkDepositPaid(ctx context.Context, orderID, paymentIntentID string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":                   store.OrderStatusConfirmed,
		"deposit_paid":             true,
		"deposit_paid_at":          now,
		"stripe_payment_intent_id": paymentIntentID,
	}

	result := os.db.WithContext(ctx).Model(&store.Order{}).
		Where("id = ?", orderID).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("order not found (id: %s)", orderID)
	}
	return nil
}

func (os *orderStore) MarkFullyPaid(ctx context.Context, orderID, paymentIntentID string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":                   store.OrderStatusPaid,
		"fully_paid":               true,
		"fully_paid_at":            now,
		"stripe_payment_intent_id": paymentIntentID,
	}

	result := os.db.WithContext(ctx).Model(&store.Order{}).
		Where("id = ?", orderID).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("order not found (id: %s)", orderID)
	}
	return nil
}

// QUERIES

func (os *orderStore) Get(ctx context.Context, id string) (*store.Order, error) {
	var order store.Order
	result := os.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order)
	if result.Error != nil {
		return nil, result.Error
	}
	return &order, nil
}

func (os *orderStore) GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*store.Order, error) {
	var order store.Order
	result := os.db.WithContext(ctx).
		Preload("Items").
		Where("stripe_payment_intent_id = ?", paymentIntentID).
		First(&order)
	if result.Error != nil {
		return nil, result.Error
	}
	return &order, nil
}

func (os *orderStore) GetByCustomer(ctx context.Context, customerID string, filters store.OrderFilters) ([]*store.Order, error) {
	query := os.db.WithContext(ctx).Preload("Items").Where("customer_id = ?", customerID)
	query = os.applyFilters(query, filters)

	var orders []*store.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (os *orderStore) ListAll(ctx context.Context, filters store.OrderFilters) ([]*store.Order, error) {
	query := os.db.WithContext(ctx).Preload("Items").Preload("Customer")
	query = os.applyFilters(query, filters)

	var orders []*store.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (os *orderStore) HasSlotConflict(ctx context.Context, date time.Time, startTime, endTime string) (bool, error) {
	return hasSlotConflict(os.db.WithContext(ctx), date, startTime, endTime)
}

// hasSlotConflict counts non-cancelled orders whose window overlaps the
// candidate. Two windows overlap unless one ends at or before the other
// starts ("HH:MM" strings compare correctly).
func hasSlotConflict(db *gorm.DB, date time.Time, startTime, endTime string) (bool, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	var count int64
	err := db.Model(&store.Order{}).
		Where("scheduled_date = ?", day).
		Where("status <> ?", store.OrderStatusCancelled).
		Where("NOT (scheduled_end_time <= ? OR scheduled_start_time >= ?)", startTime, endTime).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Helper method to apply filters
func (os *orderStore) applyFilters(query *gorm.DB, filters store.OrderFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.StartDate != nil {
		query = query.Where("scheduled_date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("scheduled_date <= ?", *filters.EndDate)
	}

	if filters.OrderBy != "" {
		query = query.Order(filters.OrderBy)
	} else {
		query = query.Order("scheduled_date DESC, created_at DESC")
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	return query
}
