package httphandler_test

import (
	"context"

	"github.com/niksmo/shop-pos/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ListProducts(ctx context.Context, query string) ([]domain.Product, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalog) CreateProduct(ctx context.Context, f domain.ProductFields) (domain.Product, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalog) UpdateProduct(
	ctx context.Context, id string, patch domain.ProductPatch,
) (domain.Product, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalog) DecrementStock(ctx context.Context, ds []domain.StockDecrement) error {
	args := m.Called(ctx, ds)
	return args.Error(0)
}

func (m *MockCatalog) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) ListOrders(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockHistory) CreateOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(domain.Order), args.Error(1)
}

type MockCarts struct {
	mock.Mock
}

func (m *MockCarts) OpenCart(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockCarts) ViewCart(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).([]domain.CartLine), args.Error(1)
}

func (m *MockCarts) AddToCart(
	ctx context.Context, cartID, productID string, qty int,
) ([]domain.CartLine, error) {
	args := m.Called(ctx, cartID, productID, qty)
	return args.Get(0).([]domain.CartLine), args.Error(1)
}

func (m *MockCarts) DecreaseInCart(
	ctx context.Context, cartID, productID string,
) ([]domain.CartLine, error) {
	args := m.Called(ctx, cartID, productID)
	return args.Get(0).([]domain.CartLine), args.Error(1)
}

func (m *MockCarts) RemoveFromCart(
	ctx context.Context, cartID, productID string,
) ([]domain.CartLine, error) {
	args := m.Called(ctx, cartID, productID)
	return args.Get(0).([]domain.CartLine), args.Error(1)
}

func (m *MockCarts) DropCart(ctx context.Context, cartID string) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

func (m *MockCarts) CheckoutCart(
	ctx context.Context, cartID string, bill domain.Bill,
) (domain.Receipt, error) {
	args := m.Called(ctx, cartID, bill)
	return args.Get(0).(domain.Receipt), args.Error(1)
}

func (m *MockCarts) QuickCheckout(
	ctx context.Context, items []domain.StockDecrement, bill domain.Bill,
) (domain.Receipt, error) {
	args := m.Called(ctx, items, bill)
	return args.Get(0).(domain.Receipt), args.Error(1)
}

type MockAdministration struct {
	mock.Mock
}

func (m *MockAdministration) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAdministration) SalesReport(ctx context.Context) ([]domain.SalesReportRow, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.SalesReportRow), args.Error(1)
}

func (m *MockAdministration) SalesTally(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int), args.Error(1)
}

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthenticator) Verify(token string) error {
	args := m.Called(token)
	return args.Error(0)
}
