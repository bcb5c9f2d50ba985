package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RevenuePoint is one bucket of a revenue series. Revenue is zero, never
// absent, for buckets without any delivered order.
type RevenuePoint struct {
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
}

// OrderAnalyticsRepository is the read-only aggregation capability consumed
// from the Order Store. All queries see only delivered orders.
type OrderAnalyticsRepository interface {
	// SumDeliveredRevenue sums the total amount of delivered orders whose
	// creation timestamp falls in [start, end). Returns zero when none match.
	SumDeliveredRevenue(ctx context.Context, start, end time.Time) (decimal.Decimal, error)

	// BestSellerGroups explodes delivered orders' line items, sums quantity
	// per product name, drops groups at or below minSales, and returns the
	// top limit groups by quantity descending (name ascending on ties).
	BestSellerGroups(ctx context.Context, minSales int64, limit int) ([]ProductSales, error)

	// ProductSalesTotals returns per-product sold quantities across all
	// delivered orders with no threshold or limit, ordered by product name.
	ProductSalesTotals(ctx context.Context) ([]ProductSales, error)
}
