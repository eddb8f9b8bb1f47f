package service

import (
	"context"
	"fmt"

	"github.com/shopcore/storefront/internal/core/domain"
	"github.com/shopcore/storefront/internal/core/port"
)

var _ port.CatalogReader = (*CatalogService)(nil)
var _ port.CatalogEditor = (*CatalogService)(nil)

// A CatalogService exposes catalog reads and the admin upsert
// to the transport layer.
type CatalogService struct {
	catalog port.CatalogStore
}

func NewCatalog(catalog port.CatalogStore) CatalogService {
	return CatalogService{catalog}
}

func (s CatalogService) GetProduct(
	ctx context.Context, productID string,
) (domain.Product, error) {
	const op = "CatalogService.GetProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s CatalogService) FindProducts(
	ctx context.Context, query domain.ProductQuery,
) ([]domain.Product, error) {
	const op = "CatalogService.FindProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if query == (domain.ProductQuery{}) {
		ps, err := s.catalog.Products(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return ps, nil
	}

	ps, err := s.catalog.SearchProducts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

// SaveProduct upserts a catalog entry whole, stock included.
func (s CatalogService) SaveProduct(
	ctx context.Context, p domain.Product,
) error {
	const op = "CatalogService.SaveProduct"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.catalog.SaveProduct(ctx, p); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
