package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/storefront/internal/core/domain"
	"github.com/shopcore/storefront/internal/core/port"
	"github.com/shopcore/storefront/pkg/retry"
)

var _ port.OrderPlacer = (*FulfillmentService)(nil)
var _ port.OrderReader = (*FulfillmentService)(nil)

const appendHistoryAttempts = 3

// A FulfillmentService converts a user's cart into a persisted
// order, decrementing catalog stock and clearing the cart, or
// fails with no partial effect.
type FulfillmentService struct {
	catalog port.CatalogStore
	carts   port.CartStore
	orders  port.OrderStore
	users   port.UserStore
	events  port.OrderEventsProducer
}

func NewFulfillment(
	catalog port.CatalogStore,
	carts port.CartStore,
	orders port.OrderStore,
	users port.UserStore,
	events port.OrderEventsProducer,
) FulfillmentService {
	return FulfillmentService{catalog, carts, orders, users, events}
}

// CreateOrder validates every cart line before touching stock.
// Stock mutation uses the store's conditional decrement, and a
// decrement or order-save failure restocks the lines committed
// so far, so stock never goes negative and no partial order is
// left behind.
func (s FulfillmentService) CreateOrder(
	ctx context.Context, userID string,
) (domain.Order, error) {
	const op = "FulfillmentService.CreateOrder"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	lines, err := s.carts.LinesByUser(ctx, userID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(lines) == 0 {
		return domain.Order{}, fmt.Errorf("%s: %w", op, domain.ErrEmptyCart)
	}

	if err := s.validateLines(ctx, lines); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	orderLines, err := s.commitLines(ctx, lines)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	order := domain.Order{
		OrderID:   uuid.NewString(),
		UserID:    userID,
		Lines:     orderLines,
		Status:    domain.OrderStatusPlaced,
		Total:     domain.OrderTotal(orderLines),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.orders.SaveOrder(ctx, order); err != nil {
		s.restock(ctx, lines)
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	s.finalize(ctx, order)

	return order, nil
}

// validateLines checks product existence and stock for every
// line without mutating anything, so an invalid line aborts
// the whole operation with zero side effects.
func (s FulfillmentService) validateLines(
	ctx context.Context, lines []domain.CartLine,
) error {
	for _, line := range lines {
		p, err := s.catalog.Product(ctx, line.ProductID)
		if err != nil {
			return fmt.Errorf("product %q: %w", line.ProductID, err)
		}
		if p.Stock < line.Quantity {
			return fmt.Errorf(
				"product %q: %w", p.ProductID, domain.ErrInsufficientStock,
			)
		}
	}
	return nil
}

// commitLines applies the conditional decrements. A concurrent
// checkout may have won a product since validation; in that case
// the lines decremented so far are restocked and the failure is
// returned untouched.
func (s FulfillmentService) commitLines(
	ctx context.Context, lines []domain.CartLine,
) ([]domain.OrderLine, error) {
	var committed []domain.CartLine
	orderLines := make([]domain.OrderLine, 0, len(lines))

	for _, line := range lines {
		err := s.catalog.DecrementStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			s.restock(ctx, committed)
			return nil, fmt.Errorf("product %q: %w", line.ProductID, err)
		}
		committed = append(committed, line)
		orderLines = append(orderLines, domain.OrderLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return orderLines, nil
}

// restock is the compensating rollback for committed decrements.
// It runs detached from the caller's context: a request cancelled
// mid-checkout must not leave stock decremented.
func (s FulfillmentService) restock(
	ctx context.Context, committed []domain.CartLine,
) {
	const op = "FulfillmentService.restock"
	log := slog.With("op", op)

	ctx = context.WithoutCancel(ctx)
	for _, line := range committed {
		err := s.catalog.IncrementStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			log.Error("failed to restock product",
				"productID", line.ProductID,
				"quantity", line.Quantity,
				"err", err,
			)
		}
	}
}

// finalize runs the best-effort steps after the order is
// committed: cart clear, order-history append and the placed
// event. Their failure never invalidates the order, and the
// caller's cancellation does not cut them short.
func (s FulfillmentService) finalize(ctx context.Context, order domain.Order) {
	const op = "FulfillmentService.finalize"
	log := slog.With("op", op, "orderID", order.OrderID)

	ctx = context.WithoutCancel(ctx)
	if err := s.carts.DeleteAllByUser(ctx, order.UserID); err != nil {
		log.Warn("failed to clear cart", "userID", order.UserID, "err", err)
	}

	err := retry.Do(ctx, retry.Config{MaxAttempts: appendHistoryAttempts},
		func() error {
			return s.users.AppendOrderID(ctx, order.UserID, order.OrderID)
		})
	if err != nil {
		log.Warn("failed to append order history",
			"userID", order.UserID, "err", err,
		)
	}

	if s.events == nil {
		return
	}
	if err := s.events.ProduceOrderPlaced(ctx, order); err != nil {
		log.Warn("failed to produce order placed event", "err", err)
	}
}

func (s FulfillmentService) ListOrders(
	ctx context.Context, userID string,
) ([]domain.Order, error) {
	const op = "FulfillmentService.ListOrders"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	orders, err := s.orders.OrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s FulfillmentService) GetOrder(
	ctx context.Context, orderID string,
) (domain.Order, error) {
	const op = "FulfillmentService.GetOrder"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	order, err := s.orders.Order(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}
