package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSalePrice(t *testing.T) {
	t.Run("treats discount up to 100 as a percentage", func(t *testing.T) {
		assert.True(t, dec("80").Equal(SalePrice(dec("100"), dec("20"))))
		assert.True(t, dec("90000").Equal(SalePrice(dec("120000"), dec("25"))))
	})

	t.Run("discount of exactly 100 is a full percentage discount", func(t *testing.T) {
		assert.True(t, SalePrice(dec("250"), dec("100")).IsZero())
	})

	t.Run("treats discount above 100 as an absolute amount", func(t *testing.T) {
		assert.True(t, dec("49850").Equal(SalePrice(dec("50000"), dec("150"))))
	})

	t.Run("does not clamp negative results", func(t *testing.T) {
		assert.True(t, dec("-50").Equal(SalePrice(dec("100"), dec("150"))))
	})

	t.Run("zero discount keeps the list price", func(t *testing.T) {
		assert.True(t, dec("100").Equal(SalePrice(dec("100"), decimal.Zero)))
	})
}

func TestNewProduct(t *testing.T) {
	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct("Norwegian Wood", dec("120000"), dec("10"))
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, "Norwegian Wood", product.Name)
		assert.Equal(t, "norwegian-wood", product.Slug)
		assert.NotEmpty(t, product.ID)
		assert.True(t, dec("108000").Equal(product.SalePrice()))
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct("  ", dec("10"), decimal.Zero)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewProduct("Book", dec("-1"), decimal.Zero)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "price cannot be negative")
	})

	t.Run("fails with negative discount", func(t *testing.T) {
		_, err := NewProduct("Book", dec("10"), dec("-5"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "discount cannot be negative")
	})
}

func TestProduct_UpdatePricing(t *testing.T) {
	product, err := NewProduct("Kafka on the Shore", dec("100"), dec("20"))
	require.NoError(t, err)
	require.True(t, dec("80").Equal(product.SalePrice()))

	t.Run("sale price follows pricing changes", func(t *testing.T) {
		require.NoError(t, product.UpdatePricing(dec("200"), dec("50")))
		assert.True(t, dec("100").Equal(product.SalePrice()))

		// Same rule at update time as at creation time, absolute branch included.
		require.NoError(t, product.UpdatePricing(dec("100"), dec("150")))
		assert.True(t, dec("-50").Equal(product.SalePrice()))
	})

	t.Run("rejects negative inputs", func(t *testing.T) {
		assert.Error(t, product.UpdatePricing(dec("-1"), decimal.Zero))
		assert.Error(t, product.UpdatePricing(dec("10"), dec("-1")))
	})
}
