package store

import (
	"context"
	"time"
)

// InvoiceStatus represents the payment state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusVoid    InvoiceStatus = "void"
)

// Invoice records a payment against an order (deposit or balance)
type Invoice struct {
	ID            string `gorm:"primaryKey;size:50;unique"`
	InvoiceNumber string `gorm:"size:50;not null;unique"` // e.g., "INV-2026-000123"

	Customer   *Customer `gorm:"foreignKey:CustomerID"`
	CustomerID string    `gorm:"size:50;not null;index:idx_invoice_customer"`
	Order      *Order    `gorm:"foreignKey:OrderID"`
	OrderID    string    `gorm:"size:50;not null;index:idx_invoice_order"`

	Status InvoiceStatus `gorm:"size:20;not null;default:'pending'"`

	// Amounts (dollars)
	Subtotal float64 `gorm:"not null"`
	Tax      float64 `gorm:"not null;default:0"`
	Discount float64 `gorm:"not null;default:0"`
	Total    float64 `gorm:"not null"`

	IsDeposit bool `gorm:"not null;default:false"`

	PaymentMethod         string  `gorm:"size:100"` // e.g., "visa ****4242"
	StripePaymentIntentID *string `gorm:"size:256"`

	IssueDate time.Time  `gorm:"not null"`
	DueDate   time.Time  `gorm:"not null"`
	PaidDate  *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null"`
}

// InvoiceStore defines the data access interface for invoices
type InvoiceStore interface {
	// Create creates a new invoice
	Create(ctx context.Context, invoice *Invoice) error

	// Get retrieves an invoice by id
	Get(ctx context.Context, id string) (*Invoice, error)

	// GetByOrder retrieves all invoices for an order
	GetByOrder(ctx context.Context, orderID string) ([]*Invoice, error)

	// GetByCustomer retrieves all invoices for a customer
	GetByCustomer(ctx context.Context, customerID string) ([]*Invoice, error)
}
