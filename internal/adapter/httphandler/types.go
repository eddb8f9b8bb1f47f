package httphandler

import (
	"errors"

	"github.com/shopcore/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

type (
	Product struct {
		ProductID   string            `json:"product_id"`
		Name        string            `json:"name"`
		Description string            `json:"description"`
		Categories  []string          `json:"categories"`
		Price       string            `json:"price"`
		Stock       int               `json:"stock"`
		Attributes  map[string]string `json:"attributes"`
		Images      []ProductImage    `json:"images"`
	}

	ProductImage struct {
		URL string `json:"url"`
		Alt string `json:"alt"`
	}

	SaveProduct struct {
		Name        string            `json:"name"`
		Description string            `json:"description"`
		Categories  []string          `json:"categories"`
		Price       string            `json:"price"`
		Stock       int               `json:"stock"`
		Attributes  map[string]string `json:"attributes"`
		Images      []ProductImage    `json:"images"`
	}
)

type (
	CartLine struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
		UnitPrice string `json:"unit_price"`
	}

	Cart struct {
		Lines []CartLine `json:"lines"`
		Total string     `json:"total"`
	}

	AddCartLine struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}

	CartQuantity struct {
		Quantity int `json:"quantity"`
	}
)

type (
	Order struct {
		OrderID   string      `json:"order_id"`
		UserID    string      `json:"user_id"`
		Lines     []OrderLine `json:"lines"`
		Status    string      `json:"status"`
		Total     string      `json:"total"`
		CreatedAt string      `json:"created_at"`
	}

	OrderLine struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
		UnitPrice string `json:"unit_price"`
	}
)

type ProductSales struct {
	ProductID string `json:"product_id"`
	UnitsSold int64  `json:"units_sold"`
}

func toDomainProduct(productID string, req SaveProduct) (domain.Product, error) {
	if productID == "" || req.Name == "" {
		return domain.Product{}, errors.New("product id and name are required")
	}
	if req.Stock < 0 {
		return domain.Product{}, errors.New("stock is negative")
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return domain.Product{}, err
	}
	if price.IsNegative() {
		return domain.Product{}, errors.New("price is negative")
	}

	p := domain.Product{
		ProductID:   productID,
		Name:        req.Name,
		Description: req.Description,
		Categories:  req.Categories,
		Price:       price,
		Stock:       req.Stock,
		Attributes:  req.Attributes,
	}
	p.Images = make([]domain.ProductImage, len(req.Images))
	for i := range req.Images {
		p.Images[i].URL = req.Images[i].URL
		p.Images[i].Alt = req.Images[i].Alt
	}
	return p, nil
}

func toProductJSON(p domain.Product) Product {
	jp := Product{
		ProductID:   p.ProductID,
		Name:        p.Name,
		Description: p.Description,
		Categories:  p.Categories,
		Price:       p.Price.String(),
		Stock:       p.Stock,
		Attributes:  p.Attributes,
	}
	jp.Images = make([]ProductImage, len(p.Images))
	for i := range p.Images {
		jp.Images[i].URL = p.Images[i].URL
		jp.Images[i].Alt = p.Images[i].Alt
	}
	return jp
}

func toProductsJSON(ps []domain.Product) []Product {
	jps := make([]Product, len(ps))
	for i, p := range ps {
		jps[i] = toProductJSON(p)
	}
	return jps
}

func toCartJSON(lines []domain.CartLine, total string) Cart {
	c := Cart{Lines: make([]CartLine, len(lines)), Total: total}
	for i, l := range lines {
		c.Lines[i] = CartLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.String(),
		}
	}
	return c
}

func toOrderJSON(o domain.Order) Order {
	jo := Order{
		OrderID:   o.OrderID,
		UserID:    o.UserID,
		Status:    o.Status,
		Total:     o.Total.String(),
		CreatedAt: o.CreatedAt.Format(timeFormat),
	}
	jo.Lines = make([]OrderLine, len(o.Lines))
	for i, l := range o.Lines {
		jo.Lines[i] = OrderLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.String(),
		}
	}
	return jo
}

func toOrdersJSON(os []domain.Order) []Order {
	jos := make([]Order, len(os))
	for i, o := range os {
		jos[i] = toOrderJSON(o)
	}
	return jos
}
