package tests

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"salesrecords/pkg/domain/model"
)

// Map-backed stand-ins for the store. Reads hand out clones so a test (or
// the service) cannot mutate stored state without going through Update.

var _ model.BranchRepository = &mockBranchRepository{}

type mockBranchRepository struct {
	store        map[uuid.UUID]*model.Branch
	findByIDsErr error
}

func (m *mockBranchRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockBranchRepository) Add(_ context.Context, branch *model.Branch) error {
	if _, exists := m.store[branch.ID]; exists {
		return errors.New("branch with this ID already exists")
	}
	clone := *branch
	m.store[branch.ID] = &clone
	return nil
}

func (m *mockBranchRepository) Find(_ context.Context, id uuid.UUID) (*model.Branch, error) {
	branch, ok := m.store[id]
	if !ok {
		return nil, model.ErrBranchNotFound
	}
	clone := *branch
	return &clone, nil
}

func (m *mockBranchRepository) FindAll(_ context.Context) ([]model.Branch, error) {
	branches := make([]model.Branch, 0, len(m.store))
	for _, branch := range m.store {
		branches = append(branches, *branch)
	}
	return branches, nil
}

func (m *mockBranchRepository) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Branch, error) {
	if m.findByIDsErr != nil {
		return nil, m.findByIDsErr
	}
	result := make(map[uuid.UUID]model.Branch, len(ids))
	for _, id := range ids {
		if branch, ok := m.store[id]; ok {
			result[id] = *branch
		}
	}
	return result, nil
}

func (m *mockBranchRepository) Update(_ context.Context, branch *model.Branch) error {
	if _, ok := m.store[branch.ID]; !ok {
		return model.ErrBranchNotFound
	}
	now := time.Now().UTC()
	branch.UpdatedAt = &now
	clone := *branch
	m.store[branch.ID] = &clone
	return nil
}

var _ model.CustomerRepository = &mockCustomerRepository{}

type mockCustomerRepository struct {
	store map[uuid.UUID]*model.Customer
}

func (m *mockCustomerRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockCustomerRepository) Add(_ context.Context, customer *model.Customer) error {
	if _, exists := m.store[customer.ID]; exists {
		return errors.New("customer with this ID already exists")
	}
	clone := *customer
	m.store[customer.ID] = &clone
	return nil
}

func (m *mockCustomerRepository) Find(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	customer, ok := m.store[id]
	if !ok {
		return nil, model.ErrCustomerNotFound
	}
	clone := *customer
	return &clone, nil
}

func (m *mockCustomerRepository) FindAll(_ context.Context) ([]model.Customer, error) {
	customers := make([]model.Customer, 0, len(m.store))
	for _, customer := range m.store {
		customers = append(customers, *customer)
	}
	return customers, nil
}

func (m *mockCustomerRepository) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Customer, error) {
	result := make(map[uuid.UUID]model.Customer, len(ids))
	for _, id := range ids {
		if customer, ok := m.store[id]; ok {
			result[id] = *customer
		}
	}
	return result, nil
}

func (m *mockCustomerRepository) Update(_ context.Context, customer *model.Customer) error {
	if _, ok := m.store[customer.ID]; !ok {
		return model.ErrCustomerNotFound
	}
	now := time.Now().UTC()
	customer.UpdatedAt = &now
	clone := *customer
	m.store[customer.ID] = &clone
	return nil
}

var _ model.ProductRepository = &mockProductRepository{}

type mockProductRepository struct {
	store map[uuid.UUID]*model.Product
}

func (m *mockProductRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockProductRepository) Add(_ context.Context, product *model.Product) error {
	if _, exists := m.store[product.ID]; exists {
		return errors.New("product with this ID already exists")
	}
	clone := *product
	m.store[product.ID] = &clone
	return nil
}

func (m *mockProductRepository) Find(_ context.Context, id uuid.UUID) (*model.Product, error) {
	product, ok := m.store[id]
	if !ok {
		return nil, model.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (m *mockProductRepository) FindAll(_ context.Context) ([]model.Product, error) {
	products := make([]model.Product, 0, len(m.store))
	for _, product := range m.store {
		products = append(products, *product)
	}
	return products, nil
}

func (m *mockProductRepository) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Product, error) {
	result := make(map[uuid.UUID]model.Product, len(ids))
	for _, id := range ids {
		if product, ok := m.store[id]; ok {
			result[id] = *product
		}
	}
	return result, nil
}

func (m *mockProductRepository) Update(_ context.Context, product *model.Product) error {
	existing, ok := m.store[product.ID]
	if !ok {
		return model.ErrProductNotFound
	}
	if existing.Version != product.Version {
		return model.ErrOptimisticLock
	}
	now := time.Now().UTC()
	product.Version++
	product.UpdatedAt = &now
	clone := *product
	m.store[product.ID] = &clone
	return nil
}

var _ model.SaleRepository = &mockSaleRepository{}

type mockSaleRepository struct {
	store map[uuid.UUID]*model.Sale
}

func (m *mockSaleRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockSaleRepository) Add(_ context.Context, sale *model.Sale) error {
	if _, exists := m.store[sale.ID]; exists {
		return errors.New("sale with this ID already exists")
	}
	clone := *sale
	m.store[sale.ID] = &clone
	return nil
}

func (m *mockSaleRepository) Find(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, ok := m.store[id]
	if !ok {
		return nil, model.ErrSaleNotFound
	}
	clone := *sale
	return &clone, nil
}

func (m *mockSaleRepository) FindAll(_ context.Context) ([]model.Sale, error) {
	sales := make([]model.Sale, 0, len(m.store))
	for _, sale := range m.store {
		sales = append(sales, *sale)
	}
	return sales, nil
}

func (m *mockSaleRepository) Update(_ context.Context, sale *model.Sale) error {
	if _, ok := m.store[sale.ID]; !ok {
		return model.ErrSaleNotFound
	}
	now := time.Now().UTC()
	sale.UpdatedAt = &now
	clone := *sale
	m.store[sale.ID] = &clone
	return nil
}

var _ model.SaleLineItemRepository = &mockLineItemRepository{}

type mockLineItemRepository struct {
	items    []model.SaleLineItem
	products *mockProductRepository
}

func (m *mockLineItemRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockLineItemRepository) AddBatch(_ context.Context, items []model.SaleLineItem) error {
	m.items = append(m.items, items...)
	return nil
}

func (m *mockLineItemRepository) FindBySaleIDs(_ context.Context, saleIDs []uuid.UUID) ([]model.LineItemWithProduct, error) {
	wanted := make(map[uuid.UUID]bool, len(saleIDs))
	for _, id := range saleIDs {
		wanted[id] = true
	}

	result := make([]model.LineItemWithProduct, 0)
	for _, item := range m.items {
		if !wanted[item.SaleID] {
			continue
		}
		name := ""
		if product, ok := m.products.store[item.ProductID]; ok {
			name = product.Name
		}
		result = append(result, model.LineItemWithProduct{SaleLineItem: item, ProductName: name})
	}
	return result, nil
}

var _ model.Transactor = &mockTransactor{}

type mockTransactor struct{}

func (m *mockTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
