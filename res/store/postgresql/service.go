package postgresql

import (
	"context"
	"fmt"

	"shiningstar-api/res/pricing"
	"shiningstar-api/res/store"
)

type serviceStore struct {
	*storeImpl
}

func NewServiceStore(rootStore *storeImpl) *serviceStore {
	return &serviceStore{storeImpl: rootStore}
}

func (ss *serviceStore) Get(ctx context.Context, id string) (*store.Service, error) {
	var service store.Service
	result := ss.db.WithContext(ctx).
		Preload("PricingRules", "is_active = ?", true).
		Where("id = ?", id).
		First(&service)
	if result.Error != nil {
		return nil, result.Error
	}
	return &service, nil
}

func (ss *serviceStore) List(ctx context.Context, activeOnly bool) ([]*store.Service, error) {
	var services []*store.Service
	query := ss.db.WithContext(ctx).Preload("PricingRules", "is_active = ?", true)

	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Order("category ASC, id ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (ss *serviceStore) Catalog(ctx context.Context) (pricing.CatalogMap, error) {
	services, err := ss.List(ctx, true)
	if err != nil {
		return nil, err
	}

	catalog := make(pricing.CatalogMap, len(services))
	for _, service := range services {
		catalog[service.ID] = service.CatalogEntry()
	}
	return catalog, nil
}

func (ss *serviceStore) Create(ctx context.Context, service *store.Service) error {
	result := ss.db.WithContext(ctx).Create(service)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to create service")
	}
	return nil
}

func (ss *serviceStore) Update(ctx context.Context, service *store.Service) error {
	result := ss.db.WithContext(ctx).Save(service)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("service not found (id: %s)", service.ID)
	}
	return nil
}
