package httphandler

import (
	"time"

	"github.com/niksmo/shop-pos/internal/core/domain"
	"github.com/shopspring/decimal"
)

func init() {
	// prices and totals go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

type (
	Product struct {
		ID             string          `json:"id"`
		Name           string          `json:"name"`
		Price          decimal.Decimal `json:"price"`
		PricePerBottle decimal.Decimal `json:"pricePerBottle"`
		Stock          int             `json:"stock"`
		Image          string          `json:"image"`
	}

	CreateProductRequest struct {
		Name           string          `json:"name"`
		Price          decimal.Decimal `json:"price"`
		PricePerBottle decimal.Decimal `json:"pricePerBottle"`
		Stock          int             `json:"stock"`
		Image          string          `json:"image"`
	}

	// PutProductsRequest carries either a bulk decrement (Items) or a
	// single product update (ID with the fields to change).
	PutProductsRequest struct {
		Items []DecrementItem `json:"items"`

		ID             string           `json:"id"`
		LegacyID       string           `json:"_id"`
		Name           *string          `json:"name"`
		Price          *decimal.Decimal `json:"price"`
		PricePerBottle *decimal.Decimal `json:"pricePerBottle"`
		Stock          *int             `json:"stock"`
		Image          *string          `json:"image"`
	}

	DecrementItem struct {
		ID       string `json:"id"`
		LegacyID string `json:"_id"`
		Qty      int    `json:"qty"`
	}
)

func productFromDomain(v domain.Product) Product {
	return Product{
		ID:             v.ID,
		Name:           v.Name,
		Price:          v.Price,
		PricePerBottle: v.PricePerBottle,
		Stock:          v.Stock,
		Image:          v.Image,
	}
}

func productsFromDomain(vs []domain.Product) []Product {
	ps := make([]Product, len(vs))
	for i, v := range vs {
		ps[i] = productFromDomain(v)
	}
	return ps
}

func (r CreateProductRequest) toDomain() domain.ProductFields {
	return domain.ProductFields{
		Name:           r.Name,
		Price:          r.Price,
		PricePerBottle: r.PricePerBottle,
		Stock:          r.Stock,
		Image:          r.Image,
	}
}

func (r PutProductsRequest) isDecrement() bool {
	return r.Items != nil
}

func (r PutProductsRequest) productID() string {
	return firstNonEmpty(r.ID, r.LegacyID)
}

func (r PutProductsRequest) patch() domain.ProductPatch {
	return domain.ProductPatch{
		Name:           r.Name,
		Price:          r.Price,
		PricePerBottle: r.PricePerBottle,
		Stock:          r.Stock,
		Image:          r.Image,
	}
}

func (r PutProductsRequest) decrements() []domain.StockDecrement {
	ds := make([]domain.StockDecrement, len(r.Items))
	for i, v := range r.Items {
		ds[i] = domain.StockDecrement{
			ProductID: firstNonEmpty(v.ID, v.LegacyID),
			Qty:       v.Qty,
		}
	}
	return ds
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}

type (
	Order struct {
		ID          string          `json:"id"`
		ShopName    string          `json:"shopName"`
		ShopNumber  string          `json:"shopNumber"`
		Items       []OrderItem     `json:"items"`
		TotalAmount decimal.Decimal `json:"totalAmount"`
		PaymentMode string          `json:"paymentMode"`
		StockSync   string          `json:"stockSync,omitempty"`
		Date        time.Time       `json:"date"`
	}

	OrderItem struct {
		ProductID string          `json:"productId,omitempty"`
		Name      string          `json:"name"`
		Qty       int             `json:"qty"`
		Price     decimal.Decimal `json:"price"`
	}

	CreateOrderRequest struct {
		ShopName    string          `json:"shopName"`
		ShopNumber  string          `json:"shopNumber"`
		Items       []OrderItem     `json:"items"`
		TotalAmount decimal.Decimal `json:"totalAmount"`
		PaymentMode string          `json:"paymentMode"`
		Date        time.Time       `json:"date"`
	}
)

func orderFromDomain(v domain.Order) Order {
	items := make([]OrderItem, len(v.Items))
	for i, it := range v.Items {
		items[i] = OrderItem(it)
	}
	return Order{
		ID:          v.ID,
		ShopName:    v.ShopName,
		ShopNumber:  v.ShopNumber,
		Items:       items,
		TotalAmount: v.TotalAmount,
		PaymentMode: string(v.PaymentMode),
		StockSync:   string(v.StockSync),
		Date:        v.Date,
	}
}

func ordersFromDomain(vs []domain.Order) []Order {
	res := make([]Order, len(vs))
	for i, v := range vs {
		res[i] = orderFromDomain(v)
	}
	return res
}

func (r CreateOrderRequest) toDomain() (domain.Order, error) {
	mode, err := domain.ParsePaymentMode(r.PaymentMode)
	if err != nil {
		return domain.Order{}, err
	}
	items := make([]domain.OrderItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = domain.OrderItem(it)
	}
	return domain.Order{
		ShopName:    r.ShopName,
		ShopNumber:  r.ShopNumber,
		Items:       items,
		TotalAmount: r.TotalAmount,
		PaymentMode: mode,
		Date:        r.Date,
	}, nil
}

type (
	BillRequest struct {
		ShopName    string `json:"shopName"`
		ShopNumber  string `json:"shopNumber"`
		PaymentMode string `json:"paymentMode"`
	}

	CheckoutRequest struct {
		BillRequest
		Items []DecrementItem `json:"items"`
	}

	AddLineRequest struct {
		ProductID string `json:"productId"`
		Qty       int    `json:"qty"`
	}

	CartLine struct {
		ProductID string          `json:"productId"`
		Name      string          `json:"name"`
		Price     decimal.Decimal `json:"price"`
		Qty       int             `json:"qty"`
		Amount    decimal.Decimal `json:"amount"`
	}

	Cart struct {
		ID    string          `json:"id"`
		Lines []CartLine      `json:"lines"`
		Total decimal.Decimal `json:"total"`
	}

	Receipt struct {
		Order     Order  `json:"order"`
		Message   string `json:"message"`
		ShareLink string `json:"shareLink,omitempty"`
	}
)

func (r BillRequest) toDomain() (domain.Bill, error) {
	mode, err := domain.ParsePaymentMode(r.PaymentMode)
	if err != nil {
		return domain.Bill{}, err
	}
	return domain.Bill{
		ShopName:    r.ShopName,
		ShopNumber:  r.ShopNumber,
		PaymentMode: mode,
	}, nil
}

func (r CheckoutRequest) items() []domain.StockDecrement {
	return PutProductsRequest{Items: r.Items}.decrements()
}

func cartFromDomain(id string, ls []domain.CartLine) Cart {
	c := Cart{ID: id, Lines: make([]CartLine, len(ls)), Total: decimal.Zero}
	for i, l := range ls {
		c.Lines[i] = CartLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Qty:       l.Qty,
			Amount:    l.Amount(),
		}
		c.Total = c.Total.Add(l.Amount())
	}
	return c
}

func receiptFromDomain(v domain.Receipt) Receipt {
	return Receipt{
		Order:     orderFromDomain(v.Order),
		Message:   v.Message,
		ShareLink: v.ShareLink,
	}
}

type (
	LoginRequest struct {
		Password string `json:"password"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	SalesReportRow struct {
		Name    string          `json:"name" csv:"Product"`
		Loaded  int             `json:"loaded" csv:"Loaded"`
		Sold    int             `json:"sold" csv:"Sold"`
		Balance int             `json:"balance" csv:"Balance"`
		Price   decimal.Decimal `json:"price" csv:"-"`
		Revenue decimal.Decimal `json:"revenue" csv:"-"`

		PriceText   string `json:"-" csv:"Price"`
		RevenueText string `json:"-" csv:"Revenue"`
	}
)

func reportFromDomain(vs []domain.SalesReportRow) []SalesReportRow {
	rows := make([]SalesReportRow, len(vs))
	for i, v := range vs {
		rows[i] = SalesReportRow{
			Name:        v.Name,
			Loaded:      v.Loaded,
			Sold:        v.Sold,
			Balance:     v.Balance,
			Price:       v.Price,
			Revenue:     v.Revenue,
			PriceText:   v.Price.StringFixed(2),
			RevenueText: v.Revenue.StringFixed(2),
		}
	}
	return rows
}
