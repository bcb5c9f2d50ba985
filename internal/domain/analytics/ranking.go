package analytics

import "github.com/shopspring/decimal"

// ProductSales is one grouped line-item aggregation: how many units of a
// product the storefront has delivered.
type ProductSales struct {
	ProductName   string `json:"product_name"`
	TotalQuantity int64  `json:"total_quantity"`
}

// RankedProduct is a best-seller entry enriched with catalog data. Thumbnail
// and Price are nil when no catalog product matches the line-item name; an
// enrichment miss never fails the ranking.
type RankedProduct struct {
	ProductName   string           `json:"product_name"`
	TotalQuantity int64            `json:"total_quantity"`
	Thumbnail     *string          `json:"thumbnail,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
}
