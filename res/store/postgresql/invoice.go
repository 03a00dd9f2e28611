package postgresql

import (
	"context"
	"errors"
	"fmt"

	"shiningstar-api/res/store"

	"gorm.io/gorm"
)

type invoiceStore struct {
	*storeImpl
}

func NewInvoiceStore(rootStore *storeImpl) *invoiceStore {
	return &invoiceStore{storeImpl: rootStore}
}

// MUTATIONS

func (is *invoiceStore) Create(ctx context.Context, invoice *store.Invoice) error {
	result := is.db.WithContext(ctx).Create(invoice)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return store.ErrUniqueViolation
		}
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("failed to create invoice (number: %s)", invoice.InvoiceNumber)
	}
	return nil
}

// QUERIES

func (is *invoiceStore) Get(ctx context.Context, id string) (*store.Invoice, error) {
	var invoice store.Invoice
	result := is.db.WithContext(ctx).Where("id = ?", id).First(&invoice)
	if result.Error != nil {
		return nil, result.Error
	}
	return &invoice, nil
}

func (is *invoiceStore) GetByOrder(ctx context.Context, orderID string) ([]*store.Invoice, error) {
	var invoices []*store.Invoice
	err := is.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("issue_date ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (is *invoiceStore) GetByCustomer(ctx context.Context, customerID string) ([]*store.Invoice, error) {
	var invoices []*store.Invoice
	err := is.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("issue_date DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}
