package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/niksmo/shop-pos/internal/core/domain"
	"github.com/niksmo/shop-pos/internal/core/port"
)

var _ port.ProductsStorage = (*ProductsRepository)(nil)

const productColumns = `id, name, price, price_per_bottle, stock, image`

type ProductsRepository struct {
	sqldb sqldb
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var v domain.Product
	err := row.Scan(&v.ID, &v.Name, &v.Price, &v.PricePerBottle, &v.Stock, &v.Image)
	return v, err
}

func (r ProductsRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductsRepository.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at ASC, id ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	vs := make([]domain.Product, 0)
	for rows.Next() {
		v, err := scanProduct(rows)
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

func (r ProductsRepository) ReadProduct(
	ctx context.Context, id string,
) (domain.Product, error) {
	const op = "ProductsRepository.ReadProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1;`

	v, err := scanProduct(r.sqldb.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (r ProductsRepository) CreateProduct(
	ctx context.Context, f domain.ProductFields,
) (domain.Product, error) {
	const op = "ProductsRepository.CreateProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + productColumns + `;`

	v, err := scanProduct(r.sqldb.QueryRowContext(ctx, query,
		uuid.NewString(), f.Name, f.Price, f.PricePerBottle, f.Stock, f.Image,
	))
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// UpdateProduct writes only the fields set in patch, in one statement.
func (r ProductsRepository) UpdateProduct(
	ctx context.Context, id string, patch domain.ProductPatch,
) (domain.Product, error) {
	const op = "ProductsRepository.UpdateProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		UPDATE products SET
			name = COALESCE($2::text, name),
			price = COALESCE($3::numeric, price),
			price_per_bottle = COALESCE($4::numeric, price_per_bottle),
			stock = COALESCE($5::integer, stock),
			image = COALESCE($6::text, image)
		WHERE id = $1
		RETURNING ` + productColumns + `;`

	// trimmed copy of the patched fields
	trimmed := patch.Apply(domain.Product{})

	v, err := scanProduct(r.sqldb.QueryRowContext(ctx, query,
		id,
		nullable(patch.Name, trimmed.Name),
		nullable(patch.Price, trimmed.Price),
		nullable(patch.PricePerBottle, trimmed.PricePerBottle),
		nullable(patch.Stock, trimmed.Stock),
		nullable(patch.Image, trimmed.Image),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func nullable[T any](set *T, v any) any {
	if set == nil {
		return nil
	}
	return v
}

func (r ProductsRepository) DecrementStock(
	ctx context.Context, id string, qty int, floor domain.StockFloor,
) error {
	const op = "ProductsRepository.DecrementStock"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := decrementStock(ctx, r.sqldb, id, qty, floor); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// decrementStock subtracts qty in place at the database.
func decrementStock(
	ctx context.Context, db execer, id string, qty int, floor domain.StockFloor,
) error {
	query := `UPDATE products SET stock = stock - $2 WHERE id = $1;`
	if floor == domain.StockFloorClamp {
		query = `UPDATE products SET stock = GREATEST(stock - $2, 0) WHERE id = $1;`
	}

	res, err := db.ExecContext(ctx, query, id, qty)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r ProductsRepository) DeleteProduct(ctx context.Context, id string) error {
	const op = "ProductsRepository.DeleteProduct"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.sqldb.ExecContext(ctx, `DELETE FROM products WHERE id = $1;`, id)
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
