package port

import (
	"context"
	"sync"

	"github.com/niksmo/shop-pos/internal/core/domain"
)

type (
	runnerContextWg interface {
		Run(context.Context, context.CancelFunc, *sync.WaitGroup)
	}

	closer interface {
		Close()
	}
)

////////////////////////////////////////////////////////
///////////////          INBOUND          //////////////
////////////////////////////////////////////////////////

type Catalog interface {
	ListProducts(ctx context.Context, query string) ([]domain.Product, error)
	CreateProduct(context.Context, domain.ProductFields) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error)
	DecrementStock(context.Context, []domain.StockDecrement) error
	DeleteProduct(ctx context.Context, id string) error
}

type History interface {
	ListOrders(context.Context) ([]domain.Order, error)
	CreateOrder(context.Context, domain.Order) (domain.Order, error)
}

type Checkout interface {
	SubmitBill(context.Context, *domain.Cart, domain.Bill) (domain.Receipt, error)
}

type Carts interface {
	OpenCart(context.Context) (string, error)
	ViewCart(ctx context.Context, cartID string) ([]domain.CartLine, error)
	AddToCart(ctx context.Context, cartID, productID string, qty int) ([]domain.CartLine, error)
	DecreaseInCart(ctx context.Context, cartID, productID string) ([]domain.CartLine, error)
	RemoveFromCart(ctx context.Context, cartID, productID string) ([]domain.CartLine, error)
	DropCart(ctx context.Context, cartID string) error
	CheckoutCart(ctx context.Context, cartID string, bill domain.Bill) (domain.Receipt, error)
	QuickCheckout(ctx context.Context, items []domain.StockDecrement, bill domain.Bill) (domain.Receipt, error)
}

type Administration interface {
	Reset(context.Context) error
	SalesReport(context.Context) ([]domain.SalesReportRow, error)
	SalesTally(context.Context) (map[string]int, error)
}

type Authenticator interface {
	Login(ctx context.Context, password string) (token string, err error)
	Verify(token string) error
}

////////////////////////////////////////////////////////
///////////////          OUTBOUND         //////////////
////////////////////////////////////////////////////////

type ProductsStorage interface {
	ListProducts(context.Context) ([]domain.Product, error)
	ReadProduct(ctx context.Context, id string) (domain.Product, error)
	CreateProduct(context.Context, domain.ProductFields) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error)
	// DecrementStock subtracts qty in one arithmetic update at the storage
	// layer, never read-modify-write.
	DecrementStock(ctx context.Context, id string, qty int, floor domain.StockFloor) error
	DeleteProduct(ctx context.Context, id string) error
}

type OrdersStorage interface {
	// ListOrders returns orders newest first.
	ListOrders(context.Context) ([]domain.Order, error)
	CreateOrder(context.Context, domain.Order) (domain.Order, error)
	MarkStockSynced(ctx context.Context, orderID string) error
}

// OrderPlacer persists an order and applies its decrements as one unit.
type OrderPlacer interface {
	PlaceOrder(context.Context, domain.Order, domain.StockFloor) (domain.Order, error)
}

type Resetter interface {
	Reset(context.Context) error
}

// OrderNotifier hands a placed order and its summary to an external
// channel.
type OrderNotifier interface {
	NotifyOrder(ctx context.Context, o domain.Order, message string) error
}

// ShareLinker builds a chat deep link pre-filled with the message.
type ShareLinker interface {
	ShareLink(phone, message string) string
}

// SalesTallyReader reads sold qty per item name from a live tally.
type SalesTallyReader interface {
	SoldQty(context.Context) (map[string]int, error)
}

type SalesTallyProcessor interface {
	runnerContextWg
	closer
}
