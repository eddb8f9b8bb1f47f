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

var _ port.UserStore = (*UsersRepository)(nil)

// UsersRepository reads identity-owned data. Registration and
// authentication live outside this service; only preferences and
// the denormalized order-history index are touched here.
type UsersRepository struct {
	sqldb sqldb
}

func NewUsersRepository(sqldb sqldb) UsersRepository {
	return UsersRepository{sqldb}
}

func (r UsersRepository) Preferences(
	ctx context.Context, userID string,
) ([]string, error) {
	const op = "UsersRepository.Preferences"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT array_to_json(preferences)::text
		FROM users
		WHERE user_id = $1;`

	var prefsS string
	err := r.sqldb.QueryRowContext(ctx, query, userID).Scan(&prefsS)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var prefs []string
	if err := json.Unmarshal([]byte(prefsS), &prefs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return prefs, nil
}

func (r UsersRepository) AppendOrderID(
	ctx context.Context, userID, orderID string,
) error {
	const op = "UsersRepository.AppendOrderID"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		UPDATE users
		SET order_ids = array_append(order_ids, $2)
		WHERE user_id = $1;`

	res, err := r.sqldb.ExecContext(ctx, query, userID, orderID)
	if err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrUserNotFound)
	}
	return nil
}
