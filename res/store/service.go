package store

import (
	"context"
	"time"

	"shiningstar-api/res/pricing"
)

// ServiceCategory groups catalog entries for display
type ServiceCategory string

const (
	ServiceCategoryBathroom     ServiceCategory = "bathroom"
	ServiceCategoryGeneral      ServiceCategory = "general"
	ServiceCategoryWindowsFloor ServiceCategory = "windows-floors"
)

// Service is an immutable catalog entry customers can select
type Service struct {
	ID       string          `gorm:"primaryKey;size:50;unique"`
	Category ServiceCategory `gorm:"size:30;not null;index:idx_service_category"`

	// Service Details
	Name        string `gorm:"size:100;not null"` // e.g., "Window Cleaning"
	Description string `gorm:"type:text"`

	// Pricing
	BasePrice float64 `gorm:"not null"`                   // Unit price in dollars
	Unit      string  `gorm:"size:20;not null;default:'each'"` // e.g., "each", "sqft"
	HasSizes  bool    `gorm:"not null;default:false"`     // Whether size tags affect price

	// Scheduling
	BaseDurationMinutes float64 `gorm:"not null;default:30"` // Per-unit duration estimate

	// Availability
	IsActive bool `gorm:"not null;default:true"`

	PricingRules []PricingRule `gorm:"foreignKey:ServiceID"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null"`
}

// RuleConditionType tags the closed set of pricing-rule conditions
type RuleConditionType string

const (
	RuleConditionSqftRange    RuleConditionType = "sqft_range"
	RuleConditionRoomCountMin RuleConditionType = "room_count_min"
)

// PricingRule is a persisted pricing adjustment attached to a service
type PricingRule struct {
	ID        string `gorm:"primaryKey;size:50;unique"`
	Service   *Service `gorm:"foreignKey:ServiceID"`
	ServiceID string `gorm:"size:50;not null;index:idx_pricing_rule_service"`

	Name string `gorm:"size:100;not null"` // e.g., "Large Area Discount"

	// Condition (tagged variant, not a free-form payload)
	ConditionType RuleConditionType `gorm:"size:30;not null"`
	ConditionMin  float64           `gorm:"not null;default:0"`
	ConditionMax  float64           `gorm:"not null;default:0"` // sqft_range only

	// Modifier
	Modifier     float64              `gorm:"not null"`
	ModifierType pricing.ModifierType `gorm:"size:20;not null"`
	Priority     int                  `gorm:"not null;default:0"`

	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null"`
}

// Condition materializes the tagged condition columns into an evaluatable
// pricing.Condition. Unknown tags yield nil, which never matches.
func (r *PricingRule) Condition() pricing.Condition {
	switch r.ConditionType {
	case RuleConditionSqftRange:
		return pricing.SqftRange{Min: r.ConditionMin, Max: r.ConditionMax}
	case RuleConditionRoomCountMin:
		return pricing.RoomCountMin{Min: int(r.ConditionMin)}
	}
	return nil
}

// CatalogEntry converts a catalog row into the pricing engine's reference shape
func (s *Service) CatalogEntry() *pricing.CatalogService {
	entry := &pricing.CatalogService{
		ID:                  s.ID,
		Name:                s.Name,
		BasePrice:           s.BasePrice,
		HasSizes:            s.HasSizes,
		BaseDurationMinutes: s.BaseDurationMinutes,
	}

	for _, rule := range s.PricingRules {
		if !rule.IsActive {
			continue
		}
		entry.Rules = append(entry.Rules, pricing.Rule{
			Name:         rule.Name,
			Condition:    rule.Condition(),
			Modifier:     rule.Modifier,
			ModifierType: rule.ModifierType,
			Priority:     rule.Priority,
			IsActive:     rule.IsActive,
		})
	}

	return entry
}

// ServiceStore defines the data access interface for the service catalog
type ServiceStore interface {
	// Get retrieves a service by id, with its pricing rules
	Get(ctx context.Context, id string) (*Service, error)

	// List retrieves catalog entries, with their pricing rules
	List(ctx context.Context, activeOnly bool) ([]*Service, error)

	// Catalog loads the active catalog in the pricing engine's shape
	Catalog(ctx context.Context) (pricing.CatalogMap, error)

	// Create creates a new service
	Create(ctx context.Context, service *Service) error

	// Update updates a service
	Update(ctx context.Context, service *Service) error
}
