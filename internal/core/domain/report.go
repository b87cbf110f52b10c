package domain

import "github.com/shopspring/decimal"

// A SalesReportRow is one product line of the admin sales report.
//
// Sold is matched by item name, since orders keep names and not
// references.
type SalesReportRow struct {
	Name    string
	Loaded  int
	Sold    int
	Balance int
	Price   decimal.Decimal
	Revenue decimal.Decimal
}

// SoldByName sums item qty per item name over orders.
func SoldByName(orders []Order) map[string]int {
	sold := make(map[string]int)
	for _, o := range orders {
		for _, i := range o.Items {
			sold[i.Name] += i.Qty
		}
	}
	return sold
}

// BuildSalesReport returns one row per product, in catalog order.
func BuildSalesReport(products []Product, sold map[string]int) []SalesReportRow {
	rows := make([]SalesReportRow, len(products))
	for n, p := range products {
		s := sold[p.Name]
		rows[n] = SalesReportRow{
			Name:    p.Name,
			Loaded:  p.Stock + s,
			Sold:    s,
			Balance: p.Stock,
			Price:   p.Price,
			Revenue: p.Price.Mul(decimal.NewFromInt(int64(s))),
		}
	}
	return rows
}
