package postgresql

import (
	"context"
	"fmt"

	"shiningstar-api/res/store"
)

type portfolioStore struct {
	*storeImpl
}

func NewPortfolioStore(rootStore *storeImpl) *portfolioStore {
	return &portfolioStore{storeImpl: rootStore}
}

func (ps *portfolioStore) List(ctx context.Context, publishedOnly bool) ([]*store.PortfolioItem, error) {
	query := ps.db.WithContext(ctx)

	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var items []*store.PortfolioItem
	if err := query.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (ps *portfolioStore) Get(ctx context.Context, id string) (*store.PortfolioItem, error) {
	var item store.PortfolioItem
	result := ps.db.WithContext(ctx).Where("id = ?", id).First(&item)
	if result.Error != nil {
		return nil, result.Error
	}
	return &item, nil
}

func (ps *portfolioStore) Create(ctx context.Context, item *store.PortfolioItem) error {
	result := ps.db.WithContext(ctx).Create(item)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("failed to create portfolio item (id: %s)", item.ID)
	}
	return nil
}

func (ps *portfolioStore) Delete(ctx context.Context, id string) error {
	result := ps.db.WithContext(ctx).Delete(&store.PortfolioItem{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("portfolio item not found (id: %s)", id)
	}
	return nil
}
