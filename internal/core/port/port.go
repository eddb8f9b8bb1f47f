package port

import (
	"context"

	"github.com/shopcore/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Inbound ports, implemented by the core services.

type OrderPlacer interface {
	CreateOrder(ctx context.Context, userID string) (domain.Order, error)
}

type OrderReader interface {
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
}

type Recommender interface {
	RecommendByProduct(
		ctx context.Context, productID string, limit int,
	) ([]domain.Product, error)
	RecommendByUser(
		ctx context.Context, userID string, limit int,
	) ([]domain.Product, error)
}

type CartEditor interface {
	AddToCart(
		ctx context.Context, userID, productID string, quantity int,
	) (domain.CartLine, error)
	SetQuantity(
		ctx context.Context, userID, productID string, quantity int,
	) error
	RemoveFromCart(ctx context.Context, userID, productID string) error
	ClearCart(ctx context.Context, userID string) error
	GetCart(
		ctx context.Context, userID string,
	) ([]domain.CartLine, decimal.Decimal, error)
}

type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	FindProducts(
		ctx context.Context, query domain.ProductQuery,
	) ([]domain.Product, error)
}

type CatalogEditor interface {
	SaveProduct(ctx context.Context, p domain.Product) error
}

// Outbound ports, implemented by the adapters.

type CatalogStore interface {
	Product(ctx context.Context, productID string) (domain.Product, error)
	Products(ctx context.Context) ([]domain.Product, error)
	SearchProducts(
		ctx context.Context, query domain.ProductQuery,
	) ([]domain.Product, error)
	SaveProduct(ctx context.Context, p domain.Product) error

	// DecrementStock succeeds only if the resulting stock stays
	// non-negative, failing with [domain.ErrInsufficientStock]
	// otherwise. IncrementStock reverts a decrement.
	DecrementStock(ctx context.Context, productID string, qty int) error
	IncrementStock(ctx context.Context, productID string, qty int) error
}

type CartStore interface {
	LinesByUser(ctx context.Context, userID string) ([]domain.CartLine, error)
	Line(ctx context.Context, userID, productID string) (domain.CartLine, error)
	SaveLine(ctx context.Context, line domain.CartLine) error
	DeleteLine(ctx context.Context, userID, productID string) error
	DeleteAllByUser(ctx context.Context, userID string) error
}

type OrderStore interface {
	SaveOrder(ctx context.Context, o domain.Order) error
	Order(ctx context.Context, orderID string) (domain.Order, error)

	// OrdersByUser returns orders most recent first.
	OrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

type UserStore interface {
	Preferences(ctx context.Context, userID string) ([]string, error)
	AppendOrderID(ctx context.Context, userID, orderID string) error
}

type OrderEventsProducer interface {
	ProduceOrderPlaced(ctx context.Context, o domain.Order) error
}

type SalesReader interface {
	UnitsSold(productID string) (int64, error)
}
