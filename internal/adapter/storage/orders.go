package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/niksmo/shop-pos/internal/core/domain"
	"github.com/niksmo/shop-pos/internal/core/port"
	"github.com/shopspring/decimal"
)

var _ port.OrdersStorage = (*OrdersRepository)(nil)
var _ port.OrderPlacer = (*OrdersRepository)(nil)

const orderColumns = `id, shop_name, shop_number, items, total_amount, payment_mode, stock_sync, date`

type orderItemRow struct {
	ProductID string          `json:"productId,omitempty"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
}

func encodeItems(items []domain.OrderItem) ([]byte, error) {
	rows := make([]orderItemRow, len(items))
	for n, i := range items {
		rows[n] = orderItemRow(i)
	}
	return json.Marshal(rows)
}

func decodeItems(data []byte) ([]domain.OrderItem, error) {
	var rows []orderItemRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	items := make([]domain.OrderItem, len(rows))
	for n, r := range rows {
		items[n] = domain.OrderItem(r)
	}
	return items, nil
}

type OrdersRepository struct {
	sqldb sqldb
}

func NewOrdersRepository(sqldb sqldb) OrdersRepository {
	return OrdersRepository{sqldb}
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		v     domain.Order
		items []byte
	)
	err := row.Scan(
		&v.ID, &v.ShopName, &v.ShopNumber, &items,
		&v.TotalAmount, &v.PaymentMode, &v.StockSync, &v.Date,
	)
	if err != nil {
		return domain.Order{}, err
	}
	v.Items, err = decodeItems(items)
	if err != nil {
		return domain.Order{}, fmt.Errorf("decode items: %w", err)
	}
	return v, nil
}

func (r OrdersRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	const op = "OrdersRepository.ListOrders"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY date DESC, id DESC;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	vs := make([]domain.Order, 0)
	for rows.Next() {
		v, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		vs = append(vs, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return vs, nil
}

func (r OrdersRepository) CreateOrder(
	ctx context.Context, o domain.Order,
) (domain.Order, error) {
	const op = "OrdersRepository.CreateOrder"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := insertOrder(ctx, r.sqldb, o)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return saved, nil
}

func insertOrder(ctx context.Context, db execer, o domain.Order) (domain.Order, error) {
	items, err := encodeItems(o.Items)
	if err != nil {
		return domain.Order{}, fmt.Errorf("encode items: %w", err)
	}

	o.ID = uuid.NewString()

	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	_, err = db.ExecContext(ctx, query,
		o.ID, o.ShopName, o.ShopNumber, string(items),
		o.TotalAmount, o.PaymentMode, o.StockSync, o.Date,
	)
	if err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r OrdersRepository) MarkStockSynced(ctx context.Context, orderID string) error {
	const op = "OrdersRepository.MarkStockSynced"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.sqldb.ExecContext(ctx,
		`UPDATE orders SET stock_sync = $2 WHERE id = $1;`,
		orderID, domain.StockSyncSynced,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

// PlaceOrder inserts the order and applies its stock decrements in one
// transaction. Decrements of products missing from the catalog are skipped.
func (r OrdersRepository) PlaceOrder(
	ctx context.Context, o domain.Order, floor domain.StockFloor,
) (placed domain.Order, placeErr error) {
	const op = "OrdersRepository.PlaceOrder"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if placeErr == nil {
			if err := tx.Commit(); err != nil {
				placed = domain.Order{}
				placeErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}

		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	saved, err := insertOrder(ctx, tx, o)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, d := range saved.Decrements() {
		err := decrementStock(ctx, tx, d.ProductID, d.Qty, floor)
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn(
				"skip decrement of unknown product",
				"orderID", saved.ID, "productID", d.ProductID,
			)
			continue
		}
		if err != nil {
			return domain.Order{}, fmt.Errorf(
				"%s: decrement %q: %w", op, d.ProductID, err,
			)
		}
	}

	return saved, nil
}
