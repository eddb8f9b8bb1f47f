package service_test

import (
	"context"

	"github.com/shopcore/storefront/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockCatalogStore struct {
	mock.Mock
}

func (m *MockCatalogStore) Product(
	ctx context.Context, productID string,
) (domain.Product, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalogStore) Products(
	ctx context.Context,
) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalogStore) SearchProducts(
	ctx context.Context, query domain.ProductQuery,
) ([]domain.Product, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalogStore) SaveProduct(
	ctx context.Context, p domain.Product,
) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockCatalogStore) DecrementStock(
	ctx context.Context, productID string, qty int,
) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

func (m *MockCatalogStore) IncrementStock(
	ctx context.Context, productID string, qty int,
) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) LinesByUser(
	ctx context.Context, userID string,
) ([]domain.CartLine, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.CartLine), args.Error(1)
}

func (m *MockCartStore) Line(
	ctx context.Context, userID, productID string,
) (domain.CartLine, error) {
	args := m.Called(ctx, userID, productID)
	return args.Get(0).(domain.CartLine), args.Error(1)
}

func (m *MockCartStore) SaveLine(
	ctx context.Context, line domain.CartLine,
) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockCartStore) DeleteLine(
	ctx context.Context, userID, productID string,
) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockCartStore) DeleteAllByUser(
	ctx context.Context, userID string,
) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockOrderStore struct {
	mock.Mock
}

func (m *MockOrderStore) SaveOrder(
	ctx context.Context, o domain.Order,
) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderStore) Order(
	ctx context.Context, orderID string,
) (domain.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrderStore) OrdersByUser(
	ctx context.Context, userID string,
) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Order), args.Error(1)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Preferences(
	ctx context.Context, userID string,
) ([]string, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUserStore) AppendOrderID(
	ctx context.Context, userID, orderID string,
) error {
	args := m.Called(ctx, userID, orderID)
	return args.Error(0)
}

type MockOrderEventsProducer struct {
	mock.Mock
}

func (m *MockOrderEventsProducer) ProduceOrderPlaced(
	ctx context.Context, o domain.Order,
) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
