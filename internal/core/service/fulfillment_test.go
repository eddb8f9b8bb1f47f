package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopcore/storefront/internal/core/domain"
	"github.com/shopcore/storefront/internal/core/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testUserID = "user-1"

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testCartLines() []domain.CartLine {
	return []domain.CartLine{
		{
			UserID: testUserID, ProductID: "p-1",
			Quantity: 2, UnitPrice: money("19.99"),
		},
		{
			UserID: testUserID, ProductID: "p-2",
			Quantity: 1, UnitPrice: money("5.25"),
		},
	}
}

func TestFulfillmentCreateOrder(t *testing.T) {

	t.Run("EmptyCart", func(t *testing.T) {
		catalog := new(MockCatalogStore)
		carts := new(MockCartStore)
		orders := new(MockOrderStore)
		users := new(MockUserStore)

		carts.On("LinesByUser", t.Context(), testUserID).
			Return([]domain.CartLine{}, nil)

		s := service.NewFulfillment(catalog, carts, orders, users, nil)
		_, err := s.CreateOrder(t.Context(), testUserID)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrEmptyCart)

		catalog.AssertNotCalled(t, "DecrementStock",
			mock.Anything, mock.Anything, mock.Anything)
		orders.AssertNotCalled(t, "SaveOrder", mock.Anything, mock.Anything)
	})

	t.Run("ProductDeleted", func(t *testing.T) {
		catalog := new(MockCatalogStore)
		carts := new(MockCartStore)
		orders := new(MockOrderStore)
		users := new(MockUserStore)

		carts.On("LinesByUser", t.Context(), testUserID).
			Return(testCartLines(), nil)
		catalog.On("Product", t.Context(), "p-1").
			Return(domain.Product{
				ProductID: "p-1", Stock: 10, Price: money("19.99"),
			}, nil)
		catalog.On("Product", t.Context(), "p-2").
			Return(domain.Product{}, domain.ErrProductNotFound)

		s := service.NewFulfillment(catalog, carts, orders, users, nil)
		_, err := s.CreateOrder(t.Context(), testUserID)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		assert.ErrorContains(t, err, "p-2")

		catalog.AssertNotCalled(t, "DecrementStock",
			mock.Anything, mock.Anything, mock.Anything)
		carts.AssertNotCalled(t, "DeleteAllByUser", mock.Anything, mock.Anything)
		orders.AssertNotCalled(t, "SaveOrder", mock.Anything, mock.Anything)
	})

	t.Run("InsufficientStockOnValidate", func(t *testing.T) {
		catalog := new(MockCatalogStore)
		carts := new(MockCartStore)
		orders := new(MockOrderStore)
		users := new(MockUserStore)

		carts.On("LinesByUser", t.Context(), testUserID).
			Return(testCartLines(), nil)
		catalog.On("Product", t.Context(), "p-1").
			Return(domain.Product{
				ProductID: "p-1", Stock: 1, Price: money("19.99"),
			}, nil)

		s := service.NewFulfillment(catalog, carts, orders, users, nil)
		_, err := s.CreateOrder(t.Context(), testUserID)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.ErrorContains(t, err, "p-1")

		catalog.AssertNotCalled(t, "DecrementStock",
			mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success", func(t *testing.T) {
		catalog := new(MockCatalogStore)
		carts := new(MockCartStore)
		orders := new(MockOrderStore)
		users := new(MockUserStore)
		events := new(MockOrderEventsProducer)

		carts.On("LinesByUser", t.Context(), testUserID).
			Return(testCartLines(), nil)
		// catalog price of p-1 moved since the cart snapshot
		catalog.On("Product", t.Context(), "p-1").
			Return(domain.Product{
				ProductID: "p-1", Stock: 5, Price: money("24.99"),
			}, nil)
		catalog.On("Product", t.Context(), "p-2").
			Return(domain.Product{
				ProductID: "p-2", Stock: 1, Price: money("5.25"),
			}, nil)
		catalog.On("DecrementStock", t.Context(), "p-1", 2).Return(nil)
		catalog.On("DecrementStock", t.Context(), "p-2", 1).Return(nil)
		orders.On("SaveOrder", t.Context(),
			mock.AnythingOfType("domain.Order")).Return(nil)
		carts.On("DeleteAllByUser", mock.Anything, testUserID).Return(nil)
		users.On("AppendOrderID", mock.Anything, testUserID,
			mock.AnythingOfType("string")).Return(nil)
		events.On("ProduceOrderPlaced", mock.Anything,
			mock.AnythingOfType("domain.Order")).Return(nil)

		s := service.NewFulfillment(catalog, carts, orders, users, events)
		order, err := s.CreateOrder(t.Context(), testUserID)
		require.NoError(t, err)

		assert.NotEmpty(t, order.OrderID)
		assert.Equal(t, testUserID, order.UserID)
		assert.Equal(t, domain.OrderStatusPlaced, order.Status)
		assert.False(t, order.CreatedAt.IsZero())

		require.Len(t, order.Lines, 2)
		// snapshot prices, not the moved catalog price
		assert.True(t, order.Lines[0].UnitPrice.Equal(money("19.99")))
		assert.True(t, order.Lines[1].UnitPrice.Equal(money("5.25")))
		assert.True(t, order.Total.Equal(money("45.23")),
			"total = %s", order.Total)

		carts.AssertCalled(t, "DeleteAllByUser", mock.Anything, testUserID)
		users.AssertCalled(t, "AppendOrderID", mock.Anything, testUserID,
			order.OrderID)
		events.AssertExpectations(t)
	})

	t.Run("LostRaceCompensatesDecrements", func(t *testing.T) {
		catalog := new(MockCatalogStore)
		carts := new(MockCartStore)
		orders := new(MockOrderStore)
		users := new(MockUserStore)

		carts.On("LinesByUser", t.Context(), testUserID).
			Return(testCartLines(), nil)
		catalog.On("Product", t.Context(), "p-1").
			Return(domain.Product{
				ProductID: "p-1", Stock: 5, Price: money("19.99"),
			}, nil)
		catalog.On("Product", t.Context(), "p-2").
			Return(domain.Product{
				ProductID: "p-2", Stock: 1, Price: money("5.25"),
			}, nil)
		catalog.On("DecrementStock", t.Context(), "p-1", 2).Return(nil)
		// a concurrent checkout won p-2 between validate and commit
		catalog.On("DecrementStock", t.Context(), "p-2", 1).
			Return(domain.ErrInsufficientStock)
		catalog.On("IncrementStock", mock.Anything, "p-1", 2).Return(nil)

		s := service.NewFulfillment(catalog, carts, orders, users, nil)
		_, err := s.CreateOrder(t.Context(), testUserID)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)

		catalog.AssertCalled(t, "IncrementStock", mock.Anything, "p-1", 2)
		orders.AssertNotCalled(t, "SaveOrder", mock.Anything, mock.Anything)
		carts.AssertNotCalled(t, "DeleteAllByUser", mock.Anything, mock.Anything)
	})

	t.Run("OrderSaveFailureRestocksAll", func(t *testing.T) {
		catalog := new(MockCatalogStore)
		carts := new(MockCartStore)
		orders := new(MockOrderStore)
		users := new(MockUserStore)

		carts.On("LinesByUser", t.Context(), testUserID).
			Return(testCartLines(), nil)
		catalog.On("Product", t.Context(), "p-1").
			Return(domain.Product{
				ProductID: "p-1", Stock: 5, Price: money("19.99"),
			}, nil)
		catalog.On("Product", t.Context(), "p-2").
			Return(domain.Product{
				ProductID: "p-2", Stock: 1, Price: money("5.25"),
			}, nil)
		catalog.On("DecrementStock", t.Context(), "p-1", 2).Return(nil)
		catalog.On("DecrementStock", t.Context(), "p-2", 1).Return(nil)
		storeErr := errors.New("connection reset")
		orders.On("SaveOrder", t.Context(),
			mock.AnythingOfType("domain.Order")).Return(storeErr)
		catalog.On("IncrementStock", mock.Anything, "p-1", 2).Return(nil)
		catalog.On("IncrementStock", mock.Anything, "p-2", 1).Return(nil)

		s := service.NewFulfillment(catalog, carts, orders, users, nil)
		_, err := s.CreateOrder(t.Context(), testUserID)
		require.Error(t, err)
		assert.ErrorIs(t, err, storeErr)

		catalog.AssertCalled(t, "IncrementStock", mock.Anything, "p-1", 2)
		catalog.AssertCalled(t, "IncrementStock", mock.Anything, "p-2", 1)
		carts.AssertNotCalled(t, "DeleteAllByUser", mock.Anything, mock.Anything)
	})

	t.Run("CancelledCallerStillCompensates", func(t *testing.T) {
		catalog := new(MockCatalogStore)
		carts := new(MockCartStore)
		orders := new(MockOrderStore)
		users := new(MockUserStore)

		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		carts.On("LinesByUser", ctx, testUserID).
			Return(testCartLines(), nil)
		catalog.On("Product", ctx, "p-1").
			Return(domain.Product{
				ProductID: "p-1", Stock: 5, Price: money("19.99"),
			}, nil)
		catalog.On("Product", ctx, "p-2").
			Return(domain.Product{
				ProductID: "p-2", Stock: 1, Price: money("5.25"),
			}, nil)
		catalog.On("DecrementStock", ctx, "p-1", 2).Return(nil)
		catalog.On("DecrementStock", ctx, "p-2", 1).Return(nil)

		// the caller hangs up while the order is being written
		orders.On("SaveOrder", ctx, mock.AnythingOfType("domain.Order")).
			Run(func(mock.Arguments) { cancel() }).
			Return(context.Canceled)

		// the rollback must arrive on a context the store will
		// still serve
		liveCtx := mock.MatchedBy(func(c context.Context) bool {
			return c.Err() == nil
		})
		catalog.On("IncrementStock", liveCtx, "p-1", 2).Return(nil)
		catalog.On("IncrementStock", liveCtx, "p-2", 1).Return(nil)

		s := service.NewFulfillment(catalog, carts, orders, users, nil)
		_, err := s.CreateOrder(ctx, testUserID)
		require.Error(t, err)

		catalog.AssertExpectations(t)
	})

	t.Run("BestEffortFailuresKeepOrder", func(t *testing.T) {
		catalog := new(MockCatalogStore)
		carts := new(MockCartStore)
		orders := new(MockOrderStore)
		users := new(MockUserStore)
		events := new(MockOrderEventsProducer)

		carts.On("LinesByUser", t.Context(), testUserID).
			Return(testCartLines()[:1], nil)
		catalog.On("Product", t.Context(), "p-1").
			Return(domain.Product{
				ProductID: "p-1", Stock: 5, Price: money("19.99"),
			}, nil)
		catalog.On("DecrementStock", t.Context(), "p-1", 2).Return(nil)
		orders.On("SaveOrder", t.Context(),
			mock.AnythingOfType("domain.Order")).Return(nil)
		carts.On("DeleteAllByUser", mock.Anything, testUserID).
			Return(errors.New("unavailable"))
		users.On("AppendOrderID", mock.Anything, testUserID,
			mock.AnythingOfType("string")).
			Return(errors.New("unavailable")).Once()
		users.On("AppendOrderID", mock.Anything, testUserID,
			mock.AnythingOfType("string")).Return(nil)
		events.On("ProduceOrderPlaced", mock.Anything,
			mock.AnythingOfType("domain.Order")).
			Return(errors.New("broker down"))

		s := service.NewFulfillment(catalog, carts, orders, users, events)
		order, err := s.CreateOrder(t.Context(), testUserID)
		require.NoError(t, err)
		assert.True(t, order.Total.Equal(money("39.98")))

		catalog.AssertNotCalled(t, "IncrementStock",
			mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestFulfillmentReads(t *testing.T) {

	t.Run("ListOrdersIdempotent", func(t *testing.T) {
		orders := new(MockOrderStore)
		stored := []domain.Order{
			{OrderID: "o-2", UserID: testUserID},
			{OrderID: "o-1", UserID: testUserID},
		}
		orders.On("OrdersByUser", t.Context(), testUserID).Return(stored, nil)

		s := service.NewFulfillment(nil, nil, orders, nil, nil)

		first, err := s.ListOrders(t.Context(), testUserID)
		require.NoError(t, err)
		second, err := s.ListOrders(t.Context(), testUserID)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("GetOrderAbsent", func(t *testing.T) {
		orders := new(MockOrderStore)
		orders.On("Order", t.Context(), "o-404").
			Return(domain.Order{}, domain.ErrOrderNotFound)

		s := service.NewFulfillment(nil, nil, orders, nil, nil)
		_, err := s.GetOrder(t.Context(), "o-404")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})
}
