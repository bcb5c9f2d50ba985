package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// discountPercentCeiling separates the two discount interpretations: values up to
// and including it are percentages, larger values are absolute amounts.
var discountPercentCeiling = decimal.NewFromInt(100)

// Product is a sellable unit in the catalog.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	Thumbnail   string          `json:"thumbnail,omitempty"`
	Quantity    int             `json:"quantity"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewProduct creates a new Product with the given name, list price and discount.
func NewProduct(name string, price, discount decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("product price cannot be negative")
	}
	if discount.IsNegative() {
		return nil, fmt.Errorf("product discount cannot be negative")
	}

	now := time.Now()
	return &Product{
		ID:        uuid.New(),
		Name:      name,
		Slug:      Slugify(name),
		Price:     price,
		Discount:  discount,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdatePricing replaces the list price and discount. The sale price is always
// derived from these two fields, so changing them is the only way to change it.
func (p *Product) UpdatePricing(price, discount decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("product price cannot be negative")
	}
	if discount.IsNegative() {
		return fmt.Errorf("product discount cannot be negative")
	}
	p.Price = price
	p.Discount = discount
	p.UpdatedAt = time.Now()
	return nil
}

// SalePrice returns the effective sale price for this product.
func (p *Product) SalePrice() decimal.Decimal {
	return SalePrice(p.Price, p.Discount)
}

// SalePrice derives the sale price from a list price and a discount value.
// A discount of at most 100 is a percentage of the list price; anything larger
// is an absolute amount. The result is not clamped: a discount exceeding the
// list price yields a negative price.
func SalePrice(listPrice, discount decimal.Decimal) decimal.Decimal {
	if discount.LessThanOrEqual(discountPercentCeiling) {
		return listPrice.Sub(discount.Mul(listPrice).Div(discountPercentCeiling))
	}
	return listPrice.Sub(discount)
}

// Slugify converts a product name to its URL slug.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}
