package store

import (
	"context"
	"time"
)

// PortfolioItem is a before/after showcase entry on the marketing site
type PortfolioItem struct {
	ID string `gorm:"primaryKey;size:50;unique"`

	Title       string `gorm:"size:200;not null"`
	Description string `gorm:"type:text"`
	Category    string `gorm:"size:50;index:idx_portfolio_category"` // e.g., "kitchen", "bathroom"

	// Object path in cloud storage, e.g. "portfolio/<id>/after-1700000000.jpg"
	ImagePath string `gorm:"size:512;not null"`

	IsPublished bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;index:idx_portfolio_created"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null"`
}

// PortfolioStore defines the data access interface for portfolio items
type PortfolioStore interface {
	// List retrieves portfolio items, newest first
	List(ctx context.Context, publishedOnly bool) ([]*PortfolioItem, error)

	// Get retrieves a portfolio item by id
	Get(ctx context.Context, id string) (*PortfolioItem, error)

	// Create creates a portfolio item
	Create(ctx context.Context, item *PortfolioItem) error

	// Delete deletes a portfolio item
	Delete(ctx context.Context, id string) error
}
