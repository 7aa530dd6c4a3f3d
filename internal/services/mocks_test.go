package services_test

import (
	"context"

	"inventory/internal/models"
	"inventory/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, q repositories.ListQuery) ([]models.Product, int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Save(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) FindInStore(ctx context.Context, productID, storeID int64) (*models.Product, error) {
	args := m.Called(ctx, productID, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) ListNotInStore(ctx context.Context, storeID int64, page repositories.Page) ([]models.Product, int64, error) {
	args := m.Called(ctx, storeID, page)
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

// MockStoreRepository is a mock implementation of repositories.StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) FindByID(ctx context.Context, id int64) (*models.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Store), args.Error(1)
}

func (m *MockStoreRepository) List(ctx context.Context, page repositories.Page) ([]models.Store, int64, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]models.Store), args.Get(1).(int64), args.Error(2)
}

func (m *MockStoreRepository) Create(ctx context.Context, store *models.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *MockStoreRepository) Save(ctx context.Context, store *models.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *MockStoreRepository) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStoreRepository) AddProduct(ctx context.Context, storeID, productID int64) error {
	args := m.Called(ctx, storeID, productID)
	return args.Error(0)
}

func (m *MockStoreRepository) RemoveProduct(ctx context.Context, storeID, productID int64) error {
	args := m.Called(ctx, storeID, productID)
	return args.Error(0)
}

func (m *MockStoreRepository) SumProductQty(ctx context.Context, storeID int64) (*string, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

// MockPublisher records published events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event string, payload interface{}) error {
	args := m.Called(ctx, event, payload)
	return args.Error(0)
}
