package cache

import (
	"context"
	"testing"
	"time"

	"github.com/bookstore/backend/internal/domain/analytics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeries() []analytics.RevenuePoint {
	return []analytics.RevenuePoint{
		{Label: "2026-04-15", Revenue: decimal.NewFromInt(120)},
		{Label: "2026-04-14", Revenue: decimal.Zero},
	}
}

func TestInMemoryReportCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss on empty cache", func(t *testing.T) {
		c := NewInMemoryReportCache(time.Minute)
		points, ok := c.Get(ctx, "revenue:daily:2026-04-15")
		assert.False(t, ok)
		assert.Nil(t, points)
	})

	t.Run("hit returns stored series", func(t *testing.T) {
		c := NewInMemoryReportCache(time.Minute)
		c.Set(ctx, "revenue:daily:2026-04-15", testSeries())

		points, ok := c.Get(ctx, "revenue:daily:2026-04-15")
		require.True(t, ok)
		require.Len(t, points, 2)
		assert.Equal(t, "2026-04-15", points[0].Label)
		assert.True(t, points[0].Revenue.Equal(decimal.NewFromInt(120)))
	})

	t.Run("entries expire after TTL", func(t *testing.T) {
		c := NewInMemoryReportCache(10 * time.Millisecond)
		c.Set(ctx, "k", testSeries())

		time.Sleep(20 * time.Millisecond)

		_, ok := c.Get(ctx, "k")
		assert.False(t, ok)
	})

	t.Run("zero TTL disables caching", func(t *testing.T) {
		c := NewInMemoryReportCache(0)
		c.Set(ctx, "k", testSeries())

		_, ok := c.Get(ctx, "k")
		assert.False(t, ok)
	})

	t.Run("keys are independent", func(t *testing.T) {
		c := NewInMemoryReportCache(time.Minute)
		c.Set(ctx, "a", testSeries())

		_, ok := c.Get(ctx, "b")
		assert.False(t, ok)
	})
}
