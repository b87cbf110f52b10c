package service_test

import (
	"context"

	"github.com/niksmo/shop-pos/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockProductsStorage struct {
	mock.Mock
}

func (m *MockProductsStorage) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductsStorage) ReadProduct(
	ctx context.Context, id string,
) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductsStorage) CreateProduct(
	ctx context.Context, f domain.ProductFields,
) (domain.Product, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductsStorage) UpdateProduct(
	ctx context.Context, id string, patch domain.ProductPatch,
) (domain.Product, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductsStorage) DecrementStock(
	ctx context.Context, id string, qty int, floor domain.StockFloor,
) error {
	args := m.Called(ctx, id, qty, floor)
	return args.Error(0)
}

func (m *MockProductsStorage) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockOrdersStorage struct {
	mock.Mock
}

func (m *MockOrdersStorage) ListOrders(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrdersStorage) CreateOrder(
	ctx context.Context, o domain.Order,
) (domain.Order, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrdersStorage) MarkStockSynced(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type MockOrderPlacer struct {
	mock.Mock
}

func (m *MockOrderPlacer) PlaceOrder(
	ctx context.Context, o domain.Order, floor domain.StockFloor,
) (domain.Order, error) {
	args := m.Called(ctx, o, floor)
	return args.Get(0).(domain.Order), args.Error(1)
}

type MockResetter struct {
	mock.Mock
}

func (m *MockResetter) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockOrderNotifier struct {
	mock.Mock
}

func (m *MockOrderNotifier) NotifyOrder(
	ctx context.Context, o domain.Order, message string,
) error {
	args := m.Called(ctx, o, message)
	return args.Error(0)
}

type MockShareLinker struct {
	mock.Mock
}

func (m *MockShareLinker) ShareLink(phone, message string) string {
	args := m.Called(phone, message)
	return args.String(0)
}

type MockSalesTallyReader struct {
	mock.Mock
}

func (m *MockSalesTallyReader) SoldQty(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int), args.Error(1)
}
