package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopcore/storefront/internal/core/domain"
	"github.com/shopcore/storefront/internal/core/port"
)

var _ port.CatalogStore = (*CatalogRepository)(nil)

const productColumns = `
	product_id, name, description, array_to_json(categories)::text,
	price, stock, attributes, images`

type CatalogRepository struct {
	sqldb sqldb
}

func NewCatalogRepository(sqldb sqldb) CatalogRepository {
	return CatalogRepository{sqldb}
}

func (r CatalogRepository) Product(
	ctx context.Context, productID string,
) (domain.Product, error) {
	const op = "CatalogRepository.Product"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT` + productColumns + `
		FROM products
		WHERE product_id = $1;`

	row := r.sqldb.QueryRowContext(ctx, query, productID)
	p, err := scanProduct(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf(
				"%s: %w", op, domain.ErrProductNotFound,
			)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (r CatalogRepository) Products(
	ctx context.Context,
) ([]domain.Product, error) {
	const op = "CatalogRepository.Products"

	query := `
		SELECT` + productColumns + `
		FROM products
		ORDER BY product_id ASC;`

	return r.queryProducts(ctx, op, query)
}

func (r CatalogRepository) SearchProducts(
	ctx context.Context, q domain.ProductQuery,
) ([]domain.Product, error) {
	const op = "CatalogRepository.SearchProducts"

	query := `
		SELECT` + productColumns + `
		FROM products
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
			AND ($2 = '' OR $2 = ANY(categories))
		ORDER BY product_id ASC;`

	return r.queryProducts(ctx, op, query, q.Name, q.Category)
}

func (r CatalogRepository) SaveProduct(
	ctx context.Context, p domain.Product,
) error {
	const op = "CatalogRepository.SaveProduct"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO products (
			product_id, name, description, categories,
			price, stock, attributes, images
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (product_id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			categories = EXCLUDED.categories,
			price = EXCLUDED.price,
			stock = EXCLUDED.stock,
			attributes = EXCLUDED.attributes,
			images = EXCLUDED.images;`

	attrB, _ := json.Marshal(p.Attributes)
	imgB, _ := json.Marshal(p.Images)
	_, err := r.sqldb.ExecContext(ctx, query,
		p.ProductID, p.Name, p.Description, p.Categories,
		p.Price, p.Stock, string(attrB), string(imgB),
	)
	if err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	return nil
}

// DecrementStock is the conditional decrement primitive: the
// update applies only while the remaining stock covers the
// quantity, so two racing checkouts can never drive stock
// negative.
func (r CatalogRepository) DecrementStock(
	ctx context.Context, productID string, qty int,
) error {
	const op = "CatalogRepository.DecrementStock"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		UPDATE products
		SET stock = stock - $2
		WHERE product_id = $1 AND stock >= $2;`

	res, err := r.sqldb.ExecContext(ctx, query, productID, qty)
	if err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, r.decrementFailure(ctx, productID))
	}
	return nil
}

// decrementFailure tells a vanished product apart from an
// insufficient-stock refusal.
func (r CatalogRepository) decrementFailure(
	ctx context.Context, productID string,
) error {
	query := `SELECT 1 FROM products WHERE product_id = $1;`

	var one int
	err := r.sqldb.QueryRowContext(ctx, query, productID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrProductNotFound
		}
		return err
	}
	return domain.ErrInsufficientStock
}

func (r CatalogRepository) IncrementStock(
	ctx context.Context, productID string, qty int,
) error {
	const op = "CatalogRepository.IncrementStock"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		UPDATE products
		SET stock = stock + $2
		WHERE product_id = $1;`

	res, err := r.sqldb.ExecContext(ctx, query, productID, qty)
	if err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
	}
	return nil
}

func (r CatalogRepository) queryProducts(
	ctx context.Context, op, query string, args ...any,
) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query: %w", op, err)
	}
	defer rows.Close()

	var ps []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func scanProduct(scan func(...any) error) (domain.Product, error) {
	var (
		p     domain.Product
		catsS string
		attrS string
		imgS  string
	)
	err := scan(
		&p.ProductID, &p.Name, &p.Description, &catsS,
		&p.Price, &p.Stock, &attrS, &imgS,
	)
	if err != nil {
		return domain.Product{}, err
	}

	// text[] travels as JSON: labels may contain commas or quotes
	if err := json.Unmarshal([]byte(catsS), &p.Categories); err != nil {
		return domain.Product{}, err
	}
	if err := json.Unmarshal([]byte(attrS), &p.Attributes); err != nil {
		return domain.Product{}, err
	}
	if err := json.Unmarshal([]byte(imgS), &p.Images); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}
