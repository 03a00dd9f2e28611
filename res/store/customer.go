package store

import (
	"context"
	"time"
)

// Customer represents a person who has requested or booked a cleaning.
// Customers are deduplicated by email; a portal account (User) is optional.
type Customer struct {
	ID string `gorm:"primaryKey;size:50;unique"`

	FirstName string `gorm:"size:100;not null"`
	LastName  string `gorm:"size:100;not null"`
	Email     string `gorm:"size:256;not null;unique;index:idx_customer_email"`
	Phone     string `gorm:"size:30"`

	// Optional link to a portal sign-in
	User   *User   `gorm:"foreignKey:UserID"`
	UserID *string `gorm:"size:50;index:idx_customer_user"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null"`
}

// Address represents a service address with resolved coordinates
type Address struct {
	ID         string    `gorm:"primaryKey;size:50;unique"`
	Customer   *Customer `gorm:"foreignKey:CustomerID"`
	CustomerID string    `gorm:"size:50;not null;index:idx_address_customer"`

	Street  string `gorm:"size:256;not null"`
	City    string `gorm:"size:100;not null"`
	State   string `gorm:"size:50;not null"`
	ZipCode string `gorm:"size:20;not null"`
	Country string `gorm:"size:50;not null;default:'US'"`

	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`

	IsDefault bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null"`
}

// CustomerFilters contains filter options for listing customers
type CustomerFilters struct {
	Search  string // matches name or email
	Limit   int
	Offset  int
	OrderBy string // e.g., "created_at DESC"
}

// CustomerStore defines the data access interface for customers
type CustomerStore interface {
	// Get retrieves a customer by id
	Get(ctx context.Context, id string) (*Customer, error)

	// GetByEmail retrieves a customer by email
	GetByEmail(ctx context.Context, email string) (*Customer, error)

	// GetByUser retrieves the customer linked to a portal user
	GetByUser(ctx context.Context, userID string) (*Customer, error)

	// Create creates a new customer
	Create(ctx context.Context, customer *Customer) error

	// Update updates a customer
	Update(ctx context.Context, customer *Customer) error

	// CreateAddress creates a service address for a customer
	CreateAddress(ctx context.Context, address *Address) error

	// GetAddresses retrieves a customer's addresses
	GetAddresses(ctx context.Context, customerID string) ([]*Address, error)

	// ListAll retrieves customers with filters (for admin)
	ListAll(ctx context.Context, filters CustomerFilters) ([]*Customer, error)
}
