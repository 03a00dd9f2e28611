package postgresql

import (
	"context"
	"fmt"

	"shiningstar-api/res/store"
)

type packageStore struct {
	*storeImpl
}

func NewPackageStore(rootStore *storeImpl) *packageStore {
	return &packageStore{storeImpl: rootStore}
}

func (ps *packageStore) Get(ctx context.Context, id string) (*store.Package, error) {
	var pkg store.Package
	result := ps.db.WithContext(ctx).Where("id = ?", id).First(&pkg)
	if result.Error != nil {
		return nil, result.Error
	}
	return &pkg, nil
}

func (ps *packageStore) List(ctx context.Context, activeOnly bool) ([]*store.Package, error) {
	var packages []*store.Package
	query := ps.db.WithContext(ctx)

	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Order("min_services ASC").Find(&packages).Error; err != nil {
		return nil, err
	}
	return packages, nil
}

func (ps *packageStore) Create(ctx context.Context, pkg *store.Package) error {
	result := ps.db.WithContext(ctx).Create(pkg)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("failed to create package")
	}
	return nil
}

func (ps *packageStore) Update(ctx context.Context, pkg *store.Package) error {
	result := ps.db.WithContext(ctx).Save(pkg)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("package not found (id: %s)", pkg.ID)
	}
	return nil
}
