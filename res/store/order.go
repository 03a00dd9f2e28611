package store

import (
	"context"
	"time"

	"shiningstar-api/res/pricing"
)

// OrderStatus represents the lifecycle of an order
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"     // Created, awaiting deposit payment
	OrderStatusConfirmed OrderStatus = "confirmed" // Deposit paid
	OrderStatusPaid      OrderStatus = "paid"      // Fully paid
	OrderStatusCompleted OrderStatus = "completed" // Service performed
	OrderStatusCancelled OrderStatus = "cancelled" // Cancelled by customer or staff
)

// Order is a booked cleaning referencing a verified quote and a chosen slot.
// Quote figures are frozen at creation time to preserve historical pricing.
type Order struct {
	ID         string    `gorm:"primaryKey;size:50;unique"`
	Customer   *Customer `gorm:"foreignKey:CustomerID"`
	CustomerID string    `gorm:"size:50;not null;index:idx_order_customer"`
	Address    *Address  `gorm:"foreignKey:AddressID"`
	AddressID  string    `gorm:"size:50;not null"`

	Status OrderStatus `gorm:"size:20;not null;default:'draft';index:idx_order_status"`

	// Frozen quote figures (dollars)
	Subtotal      float64 `gorm:"not null"`
	Discount      float64 `gorm:"not null;default:0"`
	Tax           float64 `gorm:"not null;default:0"`
	DepositAmount float64 `gorm:"not null"` // 25% of the post-discount, pre-tax total
	Total         float64 `gorm:"not null"`

	PackageID  *string `gorm:"size:50"`
	CouponCode *string `gorm:"size:50"`

	// Chosen slot. No-double-booking is enforced by the overlap check inside
	// the booking transaction; cancelled orders release their window, so the
	// slot columns carry no unique index.
	ScheduledDate      time.Time `gorm:"not null;index:idx_order_date"`
	ScheduledStartTime string    `gorm:"size:10;not null"` // e.g., "14:00"
	ScheduledEndTime   string    `gorm:"size:10;not null"`
	EstimatedDuration  int       `gorm:"not null"` // minutes

	// Payment progress
	DepositPaid           bool `gorm:"not null;default:false"`
	DepositPaidAt         *time.Time
	FullyPaid             bool `gorm:"not null;default:false"`
	FullyPaidAt           *time.Time
	StripePaymentIntentID *string `gorm:"size:256;index:idx_order_payment_intent"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;index:idx_order_created"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null"`
}

// OrderItem is one frozen line item of an order
type OrderItem struct {
	ID      string `gorm:"primaryKey;size:50;unique"`
	OrderID string `gorm:"size:50;not null;index:idx_order_item_order"`

	ServiceID  string            `gorm:"size:50;not null"`
	Name       string            `gorm:"size:100;not null"`
	Quantity   int               `gorm:"not null"`
	UnitPrice  float64           `gorm:"not null"`
	TotalPrice float64           `gorm:"not null"`
	Frequency  pricing.Frequency `gorm:"size:20;not null"`
	Size       pricing.Size      `gorm:"size:20"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null"`
}

// OrderFilters contains filter options for listing orders
type OrderFilters struct {
	Status    *OrderStatus
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
	OrderBy   string // e.g., "scheduled_date DESC"
}

// OrderStore defines the data access interface for orders
type OrderStore interface {
	// Create creates an order together with its items in one transaction.
	// Returns ErrSlotTaken when the chosen slot is already booked.
	Create(ctx context.Context, order *Order) error

	// Get retrieves an order with its items
	Get(ctx context.Context, id string) (*Order, error)

	// GetByPaymentIntent retrieves an order by its Stripe payment intent id
	GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*Order, error)

	// GetByCustomer retrieves a customer's orders
	GetByCustomer(ctx context.Context, customerID string, filters OrderFilters) ([]*Order, error)

	// ListAll retrieves orders with filters (for admin)
	ListAll(ctx context.Context, filters OrderFilters) ([]*Order, error)

	// UpdateStatus updates the status of an order
	UpdateStatus(ctx context.Context, orderID string, status OrderStatus) error

	// AttachPaymentIntent records the Stripe payment intent backing the deposit
	AttachPaymentIntent(ctx context.Context, orderID, paymentIntentID string) error

	// MarkDepositPaid marks the deposit as received and confirms the order
	MarkDepositPaid(ctx context.Context, orderID, paymentIntentID string) error

	// MarkFullyPaid marks the order as paid in full
	MarkFullyPaid(ctx context.Context, orderID, paymentIntentID string) error

	// HasSlotConflict reports whether any non-cancelled order overlaps the
	// candidate window on the given date
	HasSlotConflict(ctx context.Context, date time.Time, startTime, endTime string) (bool, error)
}
