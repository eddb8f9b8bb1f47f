package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopcore/storefront/internal/core/domain"
	"github.com/shopcore/storefront/internal/core/port"
)

var _ port.OrderStore = (*OrdersRepository)(nil)

type OrdersRepository struct {
	sqldb sqldb
}

func NewOrdersRepository(sqldb sqldb) OrdersRepository {
	return OrdersRepository{sqldb}
}

// SaveOrder writes the order header and its lines in one
// transaction, keeping the append-only order log consistent.
func (r OrdersRepository) SaveOrder(
	ctx context.Context, o domain.Order,
) (saveErr error) {
	const op = "OrdersRepository.SaveOrder"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if saveErr == nil {
			if err := tx.Commit(); err != nil {
				saveErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}

		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	orderQuery := `
		INSERT INTO orders (order_id, user_id, status, total, created_at)
		VALUES ($1, $2, $3, $4, $5);`

	_, err = tx.ExecContext(ctx, orderQuery,
		o.OrderID, o.UserID, o.Status, o.Total, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}

	lineQuery := `
		INSERT INTO order_lines (
			order_id, line_no, product_id, quantity, unit_price
		)
		VALUES ($1, $2, $3, $4, $5);`

	stmt, err := tx.PrepareContext(ctx, lineQuery)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare stmt: %w", op, err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for i, l := range o.Lines {
		_, err := stmt.ExecContext(ctx,
			o.OrderID, i, l.ProductID, l.Quantity, l.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("%s: failed to exec: %w", op, err)
		}
	}

	return nil
}

func (r OrdersRepository) Order(
	ctx context.Context, orderID string,
) (domain.Order, error) {
	const op = "OrdersRepository.Order"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT order_id, user_id, status, total, created_at
		FROM orders
		WHERE order_id = $1;`

	var o domain.Order
	err := r.sqldb.QueryRowContext(ctx, query, orderID).
		Scan(&o.OrderID, &o.UserID, &o.Status, &o.Total, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, fmt.Errorf(
				"%s: %w", op, domain.ErrOrderNotFound,
			)
		}
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	o.Lines, err = r.orderLines(ctx, o.OrderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

func (r OrdersRepository) OrdersByUser(
	ctx context.Context, userID string,
) ([]domain.Order, error) {
	const op = "OrdersRepository.OrdersByUser"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT order_id, user_id, status, total, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC;`

	rows, err := r.sqldb.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query: %w", op, err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		err := rows.Scan(
			&o.OrderID, &o.UserID, &o.Status, &o.Total, &o.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range orders {
		orders[i].Lines, err = r.orderLines(ctx, orders[i].OrderID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return orders, nil
}

func (r OrdersRepository) orderLines(
	ctx context.Context, orderID string,
) ([]domain.OrderLine, error) {
	query := `
		SELECT product_id, quantity, unit_price
		FROM order_lines
		WHERE order_id = $1
		ORDER BY line_no ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
