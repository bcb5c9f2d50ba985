package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bookstore/backend/internal/domain/analytics"
	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReportCache memoizes computed revenue series for dashboard reloads.
// Implementations must treat their own failures as cache misses; a broken
// cache never fails a report.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]analytics.RevenuePoint, bool)
	Set(ctx context.Context, key string, points []analytics.RevenuePoint)
}

// Options tunes report computation.
type Options struct {
	// RevenueDays is the window of the trailing daily report.
	RevenueDays int
	// RevenueMonths is the window of the trailing monthly report.
	RevenueMonths int
	// QueryTimeout bounds each per-bucket store query.
	QueryTimeout time.Duration
	// MaxConcurrentQueries bounds the fan-out across buckets.
	MaxConcurrentQueries int
}

// DefaultOptions returns the storefront's tuned report parameters.
func DefaultOptions() Options {
	return Options{
		RevenueDays:          10,
		RevenueMonths:        12,
		QueryTimeout:         5 * time.Second,
		MaxConcurrentQueries: 8,
	}
}

// ReportService computes revenue series and best-seller rankings from the
// order log. All operations are read-only and idempotent; running the same
// report twice against an unchanged store yields identical results.
type ReportService struct {
	orders   analytics.OrderAnalyticsRepository
	products catalog.ProductRepository
	cache    ReportCache
	opts     Options
	logger   *zap.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(
	orders analytics.OrderAnalyticsRepository,
	products catalog.ProductRepository,
	cache ReportCache,
	opts Options,
	logger *zap.Logger,
) *ReportService {
	if opts.RevenueDays <= 0 {
		opts.RevenueDays = 10
	}
	if opts.RevenueMonths <= 0 {
		opts.RevenueMonths = 12
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 5 * time.Second
	}
	if opts.MaxConcurrentQueries <= 0 {
		opts.MaxConcurrentQueries = 8
	}
	return &ReportService{
		orders:   orders,
		products: products,
		cache:    cache,
		opts:     opts,
		logger:   logger.Named("report"),
	}
}

// RevenueLastDays returns the trailing daily revenue series for the window
// ending at ref, most-recent bucket first.
func (s *ReportService) RevenueLastDays(ctx context.Context, ref time.Time) ([]analytics.RevenuePoint, error) {
	key := fmt.Sprintf("revenue:daily:%s", ref.Format("2006-01-02"))
	return s.cachedSeries(ctx, key, analytics.LastNDays(ref, s.opts.RevenueDays))
}

// RevenueCurrentWeek returns the revenue series for Monday through Sunday of
// the week containing ref.
func (s *ReportService) RevenueCurrentWeek(ctx context.Context, ref time.Time) ([]analytics.RevenuePoint, error) {
	buckets := analytics.CurrentWeek(ref)
	key := fmt.Sprintf("revenue:weekly:%s", buckets[0].Start.Format("2006-01-02"))
	return s.cachedSeries(ctx, key, buckets)
}

// RevenueTrailingMonths returns the trailing monthly revenue series for the
// window ending at ref's month, most-recent bucket first.
func (s *ReportService) RevenueTrailingMonths(ctx context.Context, ref time.Time) ([]analytics.RevenuePoint, error) {
	key := fmt.Sprintf("revenue:monthly:%s", ref.Format("2006-01"))
	return s.cachedSeries(ctx, key, analytics.TrailingMonths(ref, s.opts.RevenueMonths))
}

// RevenueRange returns a day-by-day revenue series for the inclusive
// [start, end] date range in chronological order. A range with end before
// start yields an empty series, not an error.
func (s *ReportService) RevenueRange(ctx context.Context, start, end time.Time) ([]analytics.RevenuePoint, error) {
	buckets := analytics.DayRange(start, end)
	if len(buckets) == 0 {
		return []analytics.RevenuePoint{}, nil
	}
	key := fmt.Sprintf("revenue:range:%s:%s",
		buckets[0].Start.Format("2006-01-02"),
		buckets[len(buckets)-1].Start.Format("2006-01-02"))
	return s.cachedSeries(ctx, key, buckets)
}

// BestSellers returns the ranked best-seller list enriched with catalog
// thumbnail and effective sale price. minSales is an exclusive threshold
// passed through verbatim, so zero ranks every sold product; the caller
// resolves any configured defaults before calling.
func (s *ReportService) BestSellers(ctx context.Context, minSales int64, limit int) ([]analytics.RankedProduct, error) {
	groups, err := s.orders.BestSellerGroups(ctx, minSales, limit)
	if err != nil {
		return nil, s.storeErr("best seller grouping", err)
	}

	ranked := make([]analytics.RankedProduct, len(groups))
	for i, g := range groups {
		ranked[i] = analytics.RankedProduct{
			ProductName:   g.ProductName,
			TotalQuantity: g.TotalQuantity,
		}

		product, err := s.products.FindByName(ctx, g.ProductName)
		switch {
		case err == nil:
			thumbnail := product.Thumbnail
			price := product.SalePrice()
			ranked[i].Thumbnail = &thumbnail
			ranked[i].Price = &price
		case errors.Is(err, shared.ErrNotFound):
			// Line items join the catalog by name; a renamed or removed
			// product simply loses its enrichment.
			s.logger.Debug("no catalog match for ranked product",
				zap.String("product_name", g.ProductName))
		default:
			return nil, s.storeErr("ranking enrichment", err)
		}
	}
	return ranked, nil
}

// ProductSalesTotals returns per-product delivered quantities with no
// threshold or leaderboard ceiling.
func (s *ReportService) ProductSalesTotals(ctx context.Context) ([]analytics.ProductSales, error) {
	totals, err := s.orders.ProductSalesTotals(ctx)
	if err != nil {
		return nil, s.storeErr("product sales totals", err)
	}
	return totals, nil
}

// cachedSeries serves the series from cache when possible, computing and
// storing it otherwise.
func (s *ReportService) cachedSeries(ctx context.Context, key string, buckets []analytics.Bucket) ([]analytics.RevenuePoint, error) {
	if points, ok := s.cache.Get(ctx, key); ok {
		return points, nil
	}

	points, degraded, err := s.collectSeries(ctx, buckets)
	if err != nil {
		return nil, err
	}
	// A series holding timed-out zeroes must not outlive the slowdown that
	// produced it, so only complete series are cached.
	if !degraded {
		s.cache.Set(ctx, key, points)
	}
	return points, nil
}

// collectSeries runs one revenue query per bucket through a bounded worker
// pool and joins the results in bucket order. A bucket whose query exceeds
// the per-query timeout reports zero revenue so that one slow bucket never
// fails the whole report; the returned flag marks such degraded series.
// Any other store error aborts the report.
func (s *ReportService) collectSeries(ctx context.Context, buckets []analytics.Bucket) ([]analytics.RevenuePoint, bool, error) {
	points := make([]analytics.RevenuePoint, len(buckets))
	var degraded atomic.Bool

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxConcurrentQueries)
	for i, bucket := range buckets {
		i, bucket := i, bucket
		g.Go(func() error {
			qctx, cancel := context.WithTimeout(gctx, s.opts.QueryTimeout)
			defer cancel()

			total, err := s.orders.SumDeliveredRevenue(qctx, bucket.Start, bucket.End)
			switch {
			case err == nil:
			case gctx.Err() != nil:
				// Caller cancelled or a sibling already failed.
				return gctx.Err()
			case errors.Is(err, context.DeadlineExceeded):
				s.logger.Warn("revenue bucket query timed out, reporting zero",
					zap.String("bucket", bucket.Label),
					zap.Duration("timeout", s.opts.QueryTimeout))
				degraded.Store(true)
				total = decimal.Zero
			default:
				return s.storeErr("revenue bucket "+bucket.Label, err)
			}

			points[i] = analytics.RevenuePoint{Label: bucket.Label, Revenue: total}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false, err
	}
	return points, degraded.Load(), nil
}

// storeErr wraps a store failure as retryable so callers can distinguish an
// outage from legitimately empty data.
func (s *ReportService) storeErr(op string, err error) error {
	s.logger.Error("order store query failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: %s: %v", shared.ErrStoreUnavailable, op, err)
}
