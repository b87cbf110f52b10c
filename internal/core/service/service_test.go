package service_test

import (
	"errors"
	"testing"

	"github.com/niksmo/shop-pos/internal/core/domain"
	"github.com/niksmo/shop-pos/internal/core/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListProducts(t *testing.T) {
	f := newFixture(t, service.Config{})
	catalog := []domain.Product{
		{ID: "p1", Name: "Coca Cola 300ml"},
		{ID: "p2", Name: "Bisleri Water"},
		{ID: "p3", Name: "Coke Zero"},
	}
	f.products.On("ListProducts", mock.Anything).Return(catalog, nil)

	t.Run("All", func(t *testing.T) {
		ps, err := f.svc.ListProducts(t.Context(), "")
		require.NoError(t, err)
		assert.Len(t, ps, 3)
	})

	t.Run("Query", func(t *testing.T) {
		ps, err := f.svc.ListProducts(t.Context(), " CO ")
		require.NoError(t, err)
		require.Len(t, ps, 2)
		assert.Equal(t, "p1", ps[0].ID)
		assert.Equal(t, "p3", ps[1].ID)
	})
}

func TestCreateProduct(t *testing.T) {
	t.Run("Trimmed", func(t *testing.T) {
		f := newFixture(t, service.Config{})
		fields := domain.ProductFields{Name: " Coke ", Price: decimal.NewFromInt(20), Stock: 5}

		f.products.On("CreateProduct", mock.Anything, mock.MatchedBy(
			func(f domain.ProductFields) bool { return f.Name == "Coke" },
		)).Return(domain.Product{ID: "p1", Name: "Coke"}, nil).Once()

		p, err := f.svc.CreateProduct(t.Context(), fields)
		require.NoError(t, err)
		assert.Equal(t, "p1", p.ID)
		f.products.AssertExpectations(t)
	})

	t.Run("NegativePrice", func(t *testing.T) {
		f := newFixture(t, service.Config{})
		_, err := f.svc.CreateProduct(t.Context(), domain.ProductFields{
			Name: "Coke", Price: decimal.NewFromInt(-1),
		})
		require.ErrorIs(t, err, domain.ErrValidation)
		f.products.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})
}

func TestUpdateProduct(t *testing.T) {
	f := newFixture(t, service.Config{})

	t.Run("EmptyPatch", func(t *testing.T) {
		_, err := f.svc.UpdateProduct(t.Context(), "p1", domain.ProductPatch{})
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("NotFound", func(t *testing.T) {
		stock := 3
		patch := domain.ProductPatch{Stock: &stock}
		f.products.On("UpdateProduct", mock.Anything, "missing", patch).
			Return(domain.Product{}, domain.ErrNotFound).Once()

		_, err := f.svc.UpdateProduct(t.Context(), "missing", patch)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestDecrementStock(t *testing.T) {
	t.Run("Validation", func(t *testing.T) {
		f := newFixture(t, service.Config{})

		err := f.svc.DecrementStock(t.Context(), nil)
		require.ErrorIs(t, err, domain.ErrValidation)

		err = f.svc.DecrementStock(t.Context(), []domain.StockDecrement{
			{ProductID: "p1", Qty: 1},
			{ProductID: "p2", Qty: 0},
		})
		require.ErrorIs(t, err, domain.ErrValidation)
		f.products.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("SkipsUnknownProduct", func(t *testing.T) {
		f := newFixture(t, service.Config{StockFloor: domain.StockFloorClamp})
		f.products.On("DecrementStock", mock.Anything, "gone", 2, domain.StockFloorClamp).
			Return(domain.ErrNotFound).Once()
		f.products.On("DecrementStock", mock.Anything, "p1", 1, domain.StockFloorClamp).
			Return(nil).Once()

		err := f.svc.DecrementStock(t.Context(), []domain.StockDecrement{
			{ProductID: "gone", Qty: 2},
			{ProductID: "p1", Qty: 1},
		})
		require.NoError(t, err)
		f.products.AssertExpectations(t)
	})

	t.Run("StorageFailure", func(t *testing.T) {
		f := newFixture(t, service.Config{})
		f.products.On("DecrementStock", mock.Anything, "p1", 1, mock.Anything).
			Return(errors.New("timeout")).Once()

		err := f.svc.DecrementStock(t.Context(), []domain.StockDecrement{{ProductID: "p1", Qty: 1}})
		require.ErrorIs(t, err, domain.ErrPersistence)
	})
}

func TestCreateOrder(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		f := newFixture(t, service.Config{})
		o := domain.Order{
			ShopName: "Sharma Stores",
			Items: []domain.OrderItem{
				{Name: "Coke", Qty: 3, Price: decimal.NewFromInt(20)},
				{Name: "Water", Qty: 2, Price: decimal.NewFromInt(10)},
			},
		}

		f.orders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o domain.Order) bool {
			return o.TotalAmount.Equal(decimal.NewFromInt(80)) &&
				o.PaymentMode == domain.PaymentCash &&
				o.StockSync == domain.StockSyncUntracked &&
				o.Date.Equal(testNow)
		})).Return(domain.Order{ID: "o1"}, nil).Once()

		saved, err := f.svc.CreateOrder(t.Context(), o)
		require.NoError(t, err)
		assert.Equal(t, "o1", saved.ID)
		f.orders.AssertExpectations(t)
		f.products.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NoItems", func(t *testing.T) {
		f := newFixture(t, service.Config{})
		_, err := f.svc.CreateOrder(t.Context(), domain.Order{ShopName: "Sharma Stores"})
		require.ErrorIs(t, err, domain.ErrValidation)
		f.orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})
}

func TestCarts(t *testing.T) {
	coke := domain.Product{ID: "p1", Name: "Coke", Price: decimal.NewFromInt(20), Stock: 2}

	t.Run("Lifecycle", func(t *testing.T) {
		f := newFixture(t, service.Config{CartPolicy: domain.CartPolicy{EnforceStockCap: true}})
		f.products.On("ReadProduct", mock.Anything, "p1").Return(coke, nil)

		id, err := f.svc.OpenCart(t.Context())
		require.NoError(t, err)

		lines, err := f.svc.AddToCart(t.Context(), id, "p1", 2)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].Qty)

		_, err = f.svc.AddToCart(t.Context(), id, "p1", 1)
		require.ErrorIs(t, err, domain.ErrOutOfStock)

		lines, err = f.svc.DecreaseInCart(t.Context(), id, "p1")
		require.NoError(t, err)
		assert.Equal(t, 1, lines[0].Qty)

		lines, err = f.svc.RemoveFromCart(t.Context(), id, "p1")
		require.NoError(t, err)
		assert.Empty(t, lines)

		_, err = f.svc.RemoveFromCart(t.Context(), id, "p1")
		require.ErrorIs(t, err, domain.ErrNotFound)

		require.NoError(t, f.svc.DropCart(t.Context(), id))
		_, err = f.svc.ViewCart(t.Context(), id)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		f := newFixture(t, service.Config{})
		f.products.On("ReadProduct", mock.Anything, "nope").
			Return(domain.Product{}, domain.ErrNotFound).Once()

		id, err := f.svc.OpenCart(t.Context())
		require.NoError(t, err)
		_, err = f.svc.AddToCart(t.Context(), id, "nope", 1)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("CheckoutClearsSession", func(t *testing.T) {
		f := newFixture(t, service.Config{})
		f.products.On("ReadProduct", mock.Anything, "p1").Return(coke, nil)
		f.placer.On("PlaceOrder", mock.Anything, mock.Anything, mock.Anything).
			Return(domain.Order{ID: "o1"}, nil).Once()
		f.notifier.On("NotifyOrder", mock.Anything, mock.Anything, mock.Anything).
			Return(nil).Once()
		f.linker.On("ShareLink", mock.Anything, mock.Anything).Return("").Once()

		id, err := f.svc.OpenCart(t.Context())
		require.NoError(t, err)
		_, err = f.svc.AddToCart(t.Context(), id, "p1", 1)
		require.NoError(t, err)

		r, err := f.svc.CheckoutCart(t.Context(), id, bill)
		require.NoError(t, err)
		f.wait(t)
		assert.Equal(t, "o1", r.Order.ID)

		lines, err := f.svc.ViewCart(t.Context(), id)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("QuickCheckoutValidatesFirst", func(t *testing.T) {
		f := newFixture(t, service.Config{})
		_, err := f.svc.QuickCheckout(t.Context(), []domain.StockDecrement{
			{ProductID: "p1", Qty: 1},
		}, domain.Bill{PaymentMode: domain.PaymentCash})
		require.ErrorIs(t, err, domain.ErrValidation)
		f.wait(t)
		f.assertNoIO(t)
	})
}

func TestAdministration(t *testing.T) {
	products := []domain.Product{{Name: "Coke", Price: decimal.NewFromInt(20), Stock: 7}}
	orders := []domain.Order{{Items: []domain.OrderItem{{Name: "Coke", Qty: 3}}}}

	t.Run("SalesReport", func(t *testing.T) {
		f := newFixture(t, service.Config{})
		f.products.On("ListProducts", mock.Anything).Return(products, nil)
		f.orders.On("ListOrders", mock.Anything).Return(orders, nil)

		rows, err := f.svc.SalesReport(t.Context())
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, 10, rows[0].Loaded)
		assert.Equal(t, 3, rows[0].Sold)
	})

	t.Run("TallyFallsBackToHistory", func(t *testing.T) {
		f := newFixture(t, service.Config{})
		f.orders.On("ListOrders", mock.Anything).Return(orders, nil)

		sold, err := f.svc.SalesTally(t.Context())
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"Coke": 3}, sold)
	})

	t.Run("TallyReadsLiveView", func(t *testing.T) {
		ordersStorage := new(MockOrdersStorage)
		tally := new(MockSalesTallyReader)
		tally.On("SoldQty", mock.Anything).Return(map[string]int{"Coke": 9}, nil).Once()
		svc := service.New(service.Config{}, service.Deps{
			Products: new(MockProductsStorage),
			Orders:   ordersStorage,
			Tally:    tally,
		})

		sold, err := svc.SalesTally(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 9, sold["Coke"])
		ordersStorage.AssertNotCalled(t, "ListOrders", mock.Anything)
	})

	t.Run("TallyViewNotReady", func(t *testing.T) {
		ordersStorage := new(MockOrdersStorage)
		ordersStorage.On("ListOrders", mock.Anything).Return(orders, nil).Once()
		tally := new(MockSalesTallyReader)
		tally.On("SoldQty", mock.Anything).
			Return(map[string]int(nil), errors.New("view is not recovered yet")).Once()
		svc := service.New(service.Config{}, service.Deps{
			Products: new(MockProductsStorage),
			Orders:   ordersStorage,
			Tally:    tally,
		})

		sold, err := svc.SalesTally(t.Context())
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"Coke": 3}, sold)
		ordersStorage.AssertExpectations(t)
	})

	t.Run("Reset", func(t *testing.T) {
		f := newFixture(t, service.Config{})
		f.resetter.On("Reset", mock.Anything).Return(nil).Once()
		require.NoError(t, f.svc.Reset(t.Context()))
		f.resetter.AssertExpectations(t)
	})

	t.Run("ResetUnsupported", func(t *testing.T) {
		svc := service.New(service.Config{}, service.Deps{
			Products: new(MockProductsStorage),
			Orders:   new(MockOrdersStorage),
		})
		require.ErrorIs(t, svc.Reset(t.Context()), service.ErrResetUnsupported)
	})
}
