package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopcore/storefront/internal/core/domain"
	"github.com/shopcore/storefront/internal/core/port"
)

var _ port.Recommender = (*RecommendationService)(nil)

// A RecommendationService ranks catalog products by relevance.
// Both strategies are pure full-catalog scans over current
// store state: no caching, no index.
type RecommendationService struct {
	catalog port.CatalogStore
	users   port.UserStore
}

func NewRecommendation(
	catalog port.CatalogStore, users port.UserStore,
) RecommendationService {
	return RecommendationService{catalog, users}
}

// RecommendByProduct ranks every other product by Jaccard
// similarity between category sets. The anchor itself is
// always excluded.
func (s RecommendationService) RecommendByProduct(
	ctx context.Context, productID string, limit int,
) ([]domain.Product, error) {
	const op = "RecommendationService.RecommendByProduct"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	anchor, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: product %q: %w", op, productID, err)
	}

	products, err := s.catalog.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	anchorSet := anchor.CategorySet()
	var ranked []scoredProduct
	for _, p := range products {
		if p.ProductID == anchor.ProductID {
			continue
		}
		score := jaccard(anchorSet, p.CategorySet())
		ranked = append(ranked, scoredProduct{p, score})
	}

	return topProducts(ranked, limit), nil
}

// RecommendByUser ranks products by the count of categories
// present in the user's preference set. An empty preference set
// falls back to stock count as a popularity proxy.
func (s RecommendationService) RecommendByUser(
	ctx context.Context, userID string, limit int,
) ([]domain.Product, error) {
	const op = "RecommendationService.RecommendByUser"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	prefs, err := s.users.Preferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: user %q: %w", op, userID, err)
	}

	products, err := s.catalog.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	prefSet := make(map[string]struct{}, len(prefs))
	for _, c := range prefs {
		prefSet[c] = struct{}{}
	}

	ranked := make([]scoredProduct, 0, len(products))
	for _, p := range products {
		var score float64
		if len(prefSet) == 0 {
			score = float64(p.Stock)
		} else {
			score = float64(matchCount(p.CategorySet(), prefSet))
		}
		ranked = append(ranked, scoredProduct{p, score})
	}

	return topProducts(ranked, limit), nil
}

type scoredProduct struct {
	product domain.Product
	score   float64
}

// topProducts sorts by score descending with product id
// ascending as the tie-break, keeping the order deterministic
// for equal scores.
func topProducts(ranked []scoredProduct, limit int) []domain.Product {
	if limit <= 0 {
		return nil
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].product.ProductID < ranked[j].product.ProductID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	products := make([]domain.Product, len(ranked))
	for i, r := range ranked {
		products[i] = r.product
	}
	return products
}

// jaccard is |intersection| / |union|, zero when both sets are
// empty.
func jaccard(a, b map[string]struct{}) float64 {
	intersection := 0
	for c := range a {
		if _, ok := b[c]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func matchCount(categories, prefs map[string]struct{}) int {
	n := 0
	for c := range categories {
		if _, ok := prefs[c]; ok {
			n++
		}
	}
	return n
}
