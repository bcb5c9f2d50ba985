package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bookstore/backend/internal/domain/analytics"
	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeOrderRepo answers revenue queries from a map keyed by bucket start date
// and records every query it sees.
type fakeOrderRepo struct {
	mu       sync.Mutex
	revenue  map[string]decimal.Decimal
	groups   []analytics.ProductSales
	totals   []analytics.ProductSales
	err      error
	delay    func(start time.Time) time.Duration
	hang     map[string]bool // buckets that block until the context expires
	queries  int

	gotMinSales int64
	gotLimit    int
}

func (f *fakeOrderRepo) SumDeliveredRevenue(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	f.mu.Lock()
	f.queries++
	f.mu.Unlock()

	if f.err != nil {
		return decimal.Zero, f.err
	}
	key := start.Format("2006-01-02")
	if f.hang[key] {
		<-ctx.Done()
		return decimal.Zero, ctx.Err()
	}
	if f.delay != nil {
		select {
		case <-time.After(f.delay(start)):
		case <-ctx.Done():
			return decimal.Zero, ctx.Err()
		}
	}
	if total, ok := f.revenue[key]; ok {
		return total, nil
	}
	return decimal.Zero, nil
}

func (f *fakeOrderRepo) BestSellerGroups(ctx context.Context, minSales int64, limit int) ([]analytics.ProductSales, error) {
	f.gotMinSales = minSales
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	var out []analytics.ProductSales
	for _, g := range f.groups {
		if g.TotalQuantity > minSales {
			out = append(out, g)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeOrderRepo) ProductSalesTotals(ctx context.Context) ([]analytics.ProductSales, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.totals, nil
}

func (f *fakeOrderRepo) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries
}

// fakeProductRepo serves catalog lookups from a fixed map.
type fakeProductRepo struct {
	products map[string]*catalog.Product
}

func (f *fakeProductRepo) FindByName(ctx context.Context, name string) (*catalog.Product, error) {
	if p, ok := f.products[name]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

// noopCache never hits.
type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string) ([]analytics.RevenuePoint, bool) {
	return nil, false
}
func (noopCache) Set(ctx context.Context, key string, points []analytics.RevenuePoint) {}

// recordingCache is a trivial always-storing cache for hit-path tests.
type recordingCache struct {
	mu    sync.Mutex
	store map[string][]analytics.RevenuePoint
}

func newRecordingCache() *recordingCache {
	return &recordingCache{store: map[string][]analytics.RevenuePoint{}}
}

func (c *recordingCache) Get(ctx context.Context, key string) ([]analytics.RevenuePoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	points, ok := c.store[key]
	return points, ok
}

func (c *recordingCache) Set(ctx context.Context, key string, points []analytics.RevenuePoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = points
}

var testRef = time.Date(2026, 4, 15, 12, 0, 0, 0, time.Local)

func newTestService(orders *fakeOrderRepo, products *fakeProductRepo, cache ReportCache) *ReportService {
	if products == nil {
		products = &fakeProductRepo{}
	}
	if cache == nil {
		cache = noopCache{}
	}
	opts := DefaultOptions()
	opts.QueryTimeout = 200 * time.Millisecond
	return NewReportService(orders, products, cache, opts, zap.NewNop())
}

func TestReportService_RevenueLastDays(t *testing.T) {
	t.Run("returns ten points most recent first with zero fill", func(t *testing.T) {
		orders := &fakeOrderRepo{revenue: map[string]decimal.Decimal{
			"2026-04-15": decimal.NewFromInt(500),
			"2026-04-10": decimal.NewFromInt(120),
		}}
		svc := newTestService(orders, nil, nil)

		points, err := svc.RevenueLastDays(context.Background(), testRef)
		require.NoError(t, err)
		require.Len(t, points, 10)

		assert.Equal(t, "2026-04-15", points[0].Label)
		assert.True(t, decimal.NewFromInt(500).Equal(points[0].Revenue))
		assert.True(t, decimal.NewFromInt(120).Equal(points[5].Revenue))
		for i, p := range points {
			if i != 0 && i != 5 {
				assert.True(t, p.Revenue.IsZero(), "bucket %s should be zero", p.Label)
			}
		}
	})

	t.Run("parallel evaluation preserves bucket order", func(t *testing.T) {
		orders := &fakeOrderRepo{
			revenue: map[string]decimal.Decimal{},
			// Older buckets answer faster, so completion order is the
			// reverse of bucket order.
			delay: func(start time.Time) time.Duration {
				return time.Duration(16-start.Day()) * 5 * time.Millisecond
			},
		}
		for i := 0; i < 10; i++ {
			day := testRef.AddDate(0, 0, -i)
			orders.revenue[day.Format("2006-01-02")] = decimal.NewFromInt(int64(100 + i))
		}
		svc := newTestService(orders, nil, nil)

		points, err := svc.RevenueLastDays(context.Background(), testRef)
		require.NoError(t, err)
		require.Len(t, points, 10)
		for i, p := range points {
			assert.Equal(t, testRef.AddDate(0, 0, -i).Format("2006-01-02"), p.Label)
			assert.True(t, decimal.NewFromInt(int64(100+i)).Equal(p.Revenue),
				"bucket %s out of order", p.Label)
		}
	})

	t.Run("timed out bucket reports zero and the report completes", func(t *testing.T) {
		orders := &fakeOrderRepo{
			revenue: map[string]decimal.Decimal{"2026-04-15": decimal.NewFromInt(500)},
			hang:    map[string]bool{"2026-04-13": true},
		}
		svc := newTestService(orders, nil, nil)

		points, err := svc.RevenueLastDays(context.Background(), testRef)
		require.NoError(t, err)
		require.Len(t, points, 10)
		assert.True(t, decimal.NewFromInt(500).Equal(points[0].Revenue))
		assert.True(t, points[2].Revenue.IsZero())
	})

	t.Run("store failure surfaces as retryable error", func(t *testing.T) {
		orders := &fakeOrderRepo{err: errors.New("connection refused")}
		svc := newTestService(orders, nil, nil)

		_, err := svc.RevenueLastDays(context.Background(), testRef)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrStoreUnavailable)
	})

	t.Run("caller cancellation aborts promptly", func(t *testing.T) {
		orders := &fakeOrderRepo{
			revenue: map[string]decimal.Decimal{},
			delay:   func(time.Time) time.Duration { return 10 * time.Second },
		}
		svc := newTestService(orders, nil, nil)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		done := make(chan error, 1)
		go func() {
			_, err := svc.RevenueLastDays(ctx, testRef)
			done <- err
		}()
		select {
		case err := <-done:
			require.Error(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("report did not abort after cancellation")
		}
	})
}

func TestReportService_RevenueCurrentWeek(t *testing.T) {
	orders := &fakeOrderRepo{revenue: map[string]decimal.Decimal{
		"2026-04-13": decimal.NewFromInt(70), // Monday
	}}
	svc := newTestService(orders, nil, nil)

	points, err := svc.RevenueCurrentWeek(context.Background(), testRef)
	require.NoError(t, err)
	require.Len(t, points, 7)
	assert.Equal(t, "Monday", points[0].Label)
	assert.Equal(t, "Sunday", points[6].Label)
	assert.True(t, decimal.NewFromInt(70).Equal(points[0].Revenue))
}

func TestReportService_RevenueTrailingMonths(t *testing.T) {
	orders := &fakeOrderRepo{revenue: map[string]decimal.Decimal{
		"2026-04-01": decimal.NewFromInt(9000),
		"2025-12-01": decimal.NewFromInt(1500),
	}}
	svc := newTestService(orders, nil, nil)

	points, err := svc.RevenueTrailingMonths(context.Background(), testRef)
	require.NoError(t, err)
	require.Len(t, points, 12)
	assert.Equal(t, "4-2026", points[0].Label)
	assert.True(t, decimal.NewFromInt(9000).Equal(points[0].Revenue))
	assert.Equal(t, "12-2025", points[4].Label)
	assert.True(t, decimal.NewFromInt(1500).Equal(points[4].Revenue))
}

func TestReportService_RevenueRange(t *testing.T) {
	t.Run("single day range returns one point", func(t *testing.T) {
		orders := &fakeOrderRepo{revenue: map[string]decimal.Decimal{
			"2026-04-10": decimal.NewFromInt(300),
		}}
		svc := newTestService(orders, nil, nil)

		day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.Local)
		points, err := svc.RevenueRange(context.Background(), day, day)
		require.NoError(t, err)
		require.Len(t, points, 1)
		assert.Equal(t, "10/04/2026", points[0].Label)
		assert.True(t, decimal.NewFromInt(300).Equal(points[0].Revenue))
	})

	t.Run("inverted range is empty, not an error", func(t *testing.T) {
		orders := &fakeOrderRepo{}
		svc := newTestService(orders, nil, nil)

		points, err := svc.RevenueRange(context.Background(), testRef, testRef.AddDate(0, 0, -3))
		require.NoError(t, err)
		assert.Empty(t, points)
		assert.Zero(t, orders.queryCount())
	})
}

func TestReportService_SeriesCaching(t *testing.T) {
	t.Run("complete series is served from cache on reload", func(t *testing.T) {
		orders := &fakeOrderRepo{revenue: map[string]decimal.Decimal{
			"2026-04-15": decimal.NewFromInt(500),
		}}
		svc := newTestService(orders, nil, newRecordingCache())

		first, err := svc.RevenueLastDays(context.Background(), testRef)
		require.NoError(t, err)
		queriesAfterFirst := orders.queryCount()
		assert.Equal(t, 10, queriesAfterFirst)

		second, err := svc.RevenueLastDays(context.Background(), testRef)
		require.NoError(t, err)
		assert.Equal(t, queriesAfterFirst, orders.queryCount(), "second run should be served from cache")
		assert.Equal(t, first, second)
	})

	t.Run("series with a timed out bucket is recomputed, not cached", func(t *testing.T) {
		orders := &fakeOrderRepo{
			revenue: map[string]decimal.Decimal{"2026-04-15": decimal.NewFromInt(500)},
			hang:    map[string]bool{"2026-04-13": true},
		}
		svc := newTestService(orders, nil, newRecordingCache())

		points, err := svc.RevenueLastDays(context.Background(), testRef)
		require.NoError(t, err)
		assert.True(t, points[2].Revenue.IsZero())
		queriesAfterFirst := orders.queryCount()

		_, err = svc.RevenueLastDays(context.Background(), testRef)
		require.NoError(t, err)
		assert.Equal(t, 2*queriesAfterFirst, orders.queryCount(),
			"degraded series must be recomputed on the next request")
	})
}

func TestReportService_BestSellers(t *testing.T) {
	price := decimal.NewFromInt(120000)
	products := &fakeProductRepo{products: map[string]*catalog.Product{
		"A": {Name: "A", Price: price, Thumbnail: "products/a.jpg"},
	}}

	t.Run("applies threshold, order and enrichment", func(t *testing.T) {
		orders := &fakeOrderRepo{groups: []analytics.ProductSales{
			{ProductName: "A", TotalQuantity: 10},
			{ProductName: "C", TotalQuantity: 5},
		}}
		svc := newTestService(orders, products, nil)

		ranked, err := svc.BestSellers(context.Background(), 4, 8)
		require.NoError(t, err)
		require.Len(t, ranked, 2)

		assert.Equal(t, "A", ranked[0].ProductName)
		assert.EqualValues(t, 10, ranked[0].TotalQuantity)
		require.NotNil(t, ranked[0].Thumbnail)
		assert.Equal(t, "products/a.jpg", *ranked[0].Thumbnail)
		require.NotNil(t, ranked[0].Price)
		assert.True(t, price.Equal(*ranked[0].Price))

		// No catalog entry for C: enrichment fields stay empty.
		assert.Equal(t, "C", ranked[1].ProductName)
		assert.Nil(t, ranked[1].Thumbnail)
		assert.Nil(t, ranked[1].Price)
	})

	t.Run("zero threshold reaches the store query untouched", func(t *testing.T) {
		orders := &fakeOrderRepo{groups: []analytics.ProductSales{
			{ProductName: "A", TotalQuantity: 1},
		}}
		svc := newTestService(orders, products, nil)

		ranked, err := svc.BestSellers(context.Background(), 0, 8)
		require.NoError(t, err)
		assert.EqualValues(t, 0, orders.gotMinSales)
		assert.Equal(t, 8, orders.gotLimit)
		require.Len(t, ranked, 1, "a single sold unit ranks when the threshold is zero")
	})

	t.Run("store failure is retryable", func(t *testing.T) {
		orders := &fakeOrderRepo{err: errors.New("timeout")}
		svc := newTestService(orders, products, nil)

		_, err := svc.BestSellers(context.Background(), 0, 0)
		assert.ErrorIs(t, err, shared.ErrStoreUnavailable)
	})
}

func TestReportService_ProductSalesTotals(t *testing.T) {
	orders := &fakeOrderRepo{totals: []analytics.ProductSales{
		{ProductName: "A", TotalQuantity: 10},
		{ProductName: "B", TotalQuantity: 3},
	}}
	svc := newTestService(orders, nil, nil)

	totals, err := svc.ProductSalesTotals(context.Background())
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.EqualValues(t, 3, totals[1].TotalQuantity, "totals keep products below the ranking threshold")
}
