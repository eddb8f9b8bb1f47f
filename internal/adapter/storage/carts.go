package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopcore/storefront/internal/core/domain"
	"github.com/shopcore/storefront/internal/core/port"
)

var _ port.CartStore = (*CartsRepository)(nil)

type CartsRepository struct {
	sqldb sqldb
}

func NewCartsRepository(sqldb sqldb) CartsRepository {
	return CartsRepository{sqldb}
}

func (r CartsRepository) LinesByUser(
	ctx context.Context, userID string,
) ([]domain.CartLine, error) {
	const op = "CartsRepository.LinesByUser"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT user_id, product_id, quantity, unit_price
		FROM cart_lines
		WHERE user_id = $1
		ORDER BY product_id ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query: %w", op, err)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var l domain.CartLine
		err := rows.Scan(&l.UserID, &l.ProductID, &l.Quantity, &l.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return lines, nil
}

func (r CartsRepository) Line(
	ctx context.Context, userID, productID string,
) (domain.CartLine, error) {
	const op = "CartsRepository.Line"

	if err := ctx.Err(); err != nil {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT user_id, product_id, quantity, unit_price
		FROM cart_lines
		WHERE user_id = $1 AND product_id = $2;`

	var l domain.CartLine
	err := r.sqldb.QueryRowContext(ctx, query, userID, productID).
		Scan(&l.UserID, &l.ProductID, &l.Quantity, &l.UnitPrice)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CartLine{}, fmt.Errorf(
				"%s: %w", op, domain.ErrCartLineNotFound,
			)
		}
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}
	return l, nil
}

func (r CartsRepository) SaveLine(
	ctx context.Context, line domain.CartLine,
) error {
	const op = "CartsRepository.SaveLine"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO cart_lines (user_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			unit_price = EXCLUDED.unit_price;`

	_, err := r.sqldb.ExecContext(ctx, query,
		line.UserID, line.ProductID, line.Quantity, line.UnitPrice,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	return nil
}

func (r CartsRepository) DeleteLine(
	ctx context.Context, userID, productID string,
) error {
	const op = "CartsRepository.DeleteLine"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		DELETE FROM cart_lines
		WHERE user_id = $1 AND product_id = $2;`

	_, err := r.sqldb.ExecContext(ctx, query, userID, productID)
	if err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	return nil
}

func (r CartsRepository) DeleteAllByUser(
	ctx context.Context, userID string,
) error {
	const op = "CartsRepository.DeleteAllByUser"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `DELETE FROM cart_lines WHERE user_id = $1;`

	_, err := r.sqldb.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	return nil
}
