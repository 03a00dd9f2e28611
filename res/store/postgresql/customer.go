package postgresql

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"shiningstar-api/res/store"

	"gorm.io/gorm"
)

type customerStore struct {
	*storeImpl
}

func NewCustomerStore(rootStore *storeImpl) *customerStore {
	return &customerStore{storeImpl: rootStore}
}

// MUTATIONS

func (cs *customerStore) Create(ctx context.Context, customer *store.Customer) error {
	if customer.FirstName == "" || customer.LastName == "" {
		return fmt.Errorf("%w: customer name is required", store.ErrInvalidInput)
	}

	emailAddr, err := mail.ParseAddress(customer.Email)
	if err != nil {
		return fmt.Errorf("%w: invalid customer email address", store.ErrInvalidInput)
	}
	customer.Email = emailAddr.Address

	result := cs.db.WithContext(ctx).Create(customer)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return store.ErrUniqueViolation
		}
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("failed to create customer (id: %s)", customer.ID)
	}
	return nil
}

func (cs *customerStore) Update(ctx context.Context, customer *store.Customer) error {
	result := cs.db.WithContext(ctx).Save(customer)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("customer not found (id: %s)", customer.ID)
	}
	return nil
}

func (cs *customerStore) CreateAddress(ctx context.Context, address *store.Address) error {
	result := cs.db.WithContext(ctx).Create(address)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("failed to create address (id: %s)", address.ID)
	}
	return nil
}

// QUERIES

func (cs *customerStore) Get(ctx context.Context, id string) (*store.Customer, error) {
	var customer store.Customer
	result := cs.db.WithContext(ctx).Where("id = ?", id).First(&customer)
	if result.Error != nil {
		return nil, result.Error
	}
	return &customer, nil
}

func (cs *customerStore) GetByEmail(ctx context.Context, email string) (*store.Customer, error) {
	var customer store.Customer
	result := cs.db.WithContext(ctx).Where("email = ?", email).First(&customer)
	if result.Error != nil {
		return nil, result.Error
	}
	return &customer, nil
}

func (cs *customerStore) GetByUser(ctx context.Context, userID string) (*store.Customer, error) {
	var customer store.Customer
	result := cs.db.WithContext(ctx).Where("user_id = ?", userID).First(&customer)
	if result.Error != nil {
		return nil, result.Error
	}
	return &customer, nil
}

func (cs *customerStore) GetAddresses(ctx context.Context, customerID string) ([]*store.Address, error) {
	var addresses []*store.Address
	err := cs.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

func (cs *customerStore) ListAll(ctx context.Context, filters store.CustomerFilters) ([]*store.Customer, error) {
	query := cs.db.WithContext(ctx)

	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	if filters.OrderBy != "" {
		query = query.Order(filters.OrderBy)
	} else {
		query = query.Order("created_at DESC")
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var customers []*store.Customer
	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}
