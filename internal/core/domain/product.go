package domain

import "github.com/shopspring/decimal"

type (
	Product struct {
		ProductID   string
		Name        string
		Description string
		Categories  []string
		Price       decimal.Decimal
		Stock       int
		Attributes  map[string]string
		Images      []ProductImage
	}

	ProductImage struct {
		URL string
		Alt string
	}
)

// A ProductQuery filters catalog reads.
// Empty fields are not applied.
type ProductQuery struct {
	Name     string
	Category string
}

// CategorySet returns the product categories as a set,
// dropping duplicates and empty labels.
func (p Product) CategorySet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Categories))
	for _, c := range p.Categories {
		if c == "" {
			continue
		}
		set[c] = struct{}{}
	}
	return set
}
