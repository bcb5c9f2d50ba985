package persistence

import (
	"context"
	"time"

	"github.com/bookstore/backend/internal/domain/analytics"
	"github.com/bookstore/backend/internal/domain/order"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormOrderAnalyticsRepository implements analytics.OrderAnalyticsRepository using GORM
type GormOrderAnalyticsRepository struct {
	db *gorm.DB
}

// NewGormOrderAnalyticsRepository creates a new GormOrderAnalyticsRepository
func NewGormOrderAnalyticsRepository(db *gorm.DB) *GormOrderAnalyticsRepository {
	return &GormOrderAnalyticsRepository{db: db}
}

// SumDeliveredRevenue returns the total amount of delivered orders created
// within [start, end). Orders created exactly at end belong to the next bucket.
func (r *GormOrderAnalyticsRepository) SumDeliveredRevenue(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	type revenueResult struct {
		Total decimal.Decimal
	}

	var result revenueResult

	err := r.db.WithContext(ctx).
		Table("orders").
		Select("COALESCE(SUM(total_amount), 0) as total").
		Where("status = ?", order.StatusDelivered).
		Where("created_at >= ? AND created_at < ?", start, end).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}

	return result.Total, nil
}

// BestSellerGroups returns per-product delivered sales totals, keeping only
// products that sold strictly more than minSales units, ordered by quantity
// descending with name as a deterministic tie-break, capped at limit rows.
func (r *GormOrderAnalyticsRepository) BestSellerGroups(ctx context.Context, minSales int64, limit int) ([]analytics.ProductSales, error) {
	type groupResult struct {
		ProductName   string
		TotalQuantity int64
	}

	var results []groupResult

	err := r.db.WithContext(ctx).
		Table("order_items oi").
		Select("oi.product_name, SUM(oi.quantity) as total_quantity").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.status = ?", order.StatusDelivered).
		Group("oi.product_name").
		Having("SUM(oi.quantity) > ?", minSales).
		Order("total_quantity DESC, oi.product_name ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	groups := make([]analytics.ProductSales, len(results))
	for i, g := range results {
		groups[i] = analytics.ProductSales{
			ProductName:   g.ProductName,
			TotalQuantity: g.TotalQuantity,
		}
	}

	return groups, nil
}

// ProductSalesTotals returns delivered sales totals for every product that
// appears in at least one delivered order, without threshold or limit.
func (r *GormOrderAnalyticsRepository) ProductSalesTotals(ctx context.Context) ([]analytics.ProductSales, error) {
	type groupResult struct {
		ProductName   string
		TotalQuantity int64
	}

	var results []groupResult

	err := r.db.WithContext(ctx).
		Table("order_items oi").
		Select("oi.product_name, SUM(oi.quantity) as total_quantity").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.status = ?", order.StatusDelivered).
		Group("oi.product_name").
		Order("total_quantity DESC, oi.product_name ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	totals := make([]analytics.ProductSales, len(results))
	for i, g := range results {
		totals[i] = analytics.ProductSales{
			ProductName:   g.ProductName,
			TotalQuantity: g.TotalQuantity,
		}
	}

	return totals, nil
}
