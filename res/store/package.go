package store

import (
	"context"
	"time"
)

// Package represents a bundle discount unlocked by selecting enough services
type Package struct {
	ID   string `gorm:"primaryKey;size:50;unique"`
	Name string `gorm:"size:100;not null"` // e.g., "Premium Bundle"

	Description string `gorm:"type:text"`

	// Discount as a fraction of the subtotal, e.g. 0.15 for 15%
	Discount    float64 `gorm:"not null"`
	MinServices int     `gorm:"not null;default:1"` // Minimum qualifying selection count

	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null"`
}

// PackageStore defines the data access interface for packages
type PackageStore interface {
	// Get retrieves a package by id
	Get(ctx context.Context, id string) (*Package, error)

	// List retrieves packages
	List(ctx context.Context, activeOnly bool) ([]*Package, error)

	// Create creates a new package
	Create(ctx context.Context, pkg *Package) error

	// Update updates a package
	Update(ctx context.Context, pkg *Package) error
}
