package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopcore/storefront/internal/core/domain"
	"github.com/shopcore/storefront/internal/core/port"
	"github.com/shopspring/decimal"
)

var _ port.CartEditor = (*CartService)(nil)

var errNonPositiveQuantity = errors.New("quantity must be positive")

// A CartService maintains per-user cart lines. Prices are
// snapshotted from the catalog when a line is created and kept
// until checkout.
type CartService struct {
	catalog port.CatalogStore
	carts   port.CartStore
}

func NewCart(catalog port.CatalogStore, carts port.CartStore) CartService {
	return CartService{catalog, carts}
}

// AddToCart merges the quantity into an existing line or creates
// one with the current catalog price as the snapshot.
func (s CartService) AddToCart(
	ctx context.Context, userID, productID string, quantity int,
) (domain.CartLine, error) {
	const op = "CartService.AddToCart"

	if err := ctx.Err(); err != nil {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}
	if quantity <= 0 {
		return domain.CartLine{}, fmt.Errorf(
			"%s: %w", op, errNonPositiveQuantity,
		)
	}

	p, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf(
			"%s: product %q: %w", op, productID, err,
		)
	}
	if p.Stock < quantity {
		return domain.CartLine{}, fmt.Errorf(
			"%s: product %q: %w", op, productID, domain.ErrInsufficientStock,
		)
	}

	line, err := s.carts.Line(ctx, userID, productID)
	switch {
	case err == nil:
		line.Quantity += quantity
	case errors.Is(err, domain.ErrCartLineNotFound):
		line = domain.CartLine{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: p.Price,
		}
	default:
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.carts.SaveLine(ctx, line); err != nil {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}
	return line, nil
}

// SetQuantity replaces the line quantity. Zero deletes the line;
// a line is never persisted at zero. A positive quantity is
// checked against current stock like AddToCart.
func (s CartService) SetQuantity(
	ctx context.Context, userID, productID string, quantity int,
) error {
	const op = "CartService.SetQuantity"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if quantity < 0 {
		return fmt.Errorf("%s: %w", op, errNonPositiveQuantity)
	}
	if quantity == 0 {
		if err := s.carts.DeleteLine(ctx, userID, productID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	p, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return fmt.Errorf("%s: product %q: %w", op, productID, err)
	}
	if p.Stock < quantity {
		return fmt.Errorf(
			"%s: product %q: %w", op, productID, domain.ErrInsufficientStock,
		)
	}

	line, err := s.carts.Line(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("%s: product %q: %w", op, productID, err)
	}

	line.Quantity = quantity
	if err := s.carts.SaveLine(ctx, line); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s CartService) RemoveFromCart(
	ctx context.Context, userID, productID string,
) error {
	const op = "CartService.RemoveFromCart"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.carts.DeleteLine(ctx, userID, productID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s CartService) ClearCart(ctx context.Context, userID string) error {
	const op = "CartService.ClearCart"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.carts.DeleteAllByUser(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s CartService) GetCart(
	ctx context.Context, userID string,
) ([]domain.CartLine, decimal.Decimal, error) {
	const op = "CartService.GetCart"

	if err := ctx.Err(); err != nil {
		return nil, decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}

	lines, err := s.carts.LinesByUser(ctx, userID)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}
	return lines, domain.CartTotal(lines), nil
}
