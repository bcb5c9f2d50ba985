package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockProductRepository creates a GormProductRepository with a mocked SQL connection
func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormProductRepository(gormDB), mock, mockDB
}

func TestNewGormProductRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormProductRepository_FindByName(t *testing.T) {
	t.Run("finds existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "slug", "description", "price", "discount", "thumbnail", "quantity"}).
			AddRow(productID, "Clean Code", "clean-code", "", decimal.NewFromInt(250), decimal.NewFromInt(20), "/img/clean-code.jpg", 12)

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE name = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("Clean Code", 1).
			WillReturnRows(rows)

		product, err := repo.FindByName(context.Background(), "Clean Code")

		assert.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, productID, product.ID)
		assert.Equal(t, "Clean Code", product.Name)
		assert.Equal(t, "/img/clean-code.jpg", product.Thumbnail)
		assert.True(t, product.SalePrice().Equal(decimal.NewFromInt(200)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE name = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("No Such Book", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		product, err := repo.FindByName(context.Background(), "No Such Book")

		assert.Error(t, err)
		assert.Nil(t, product)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
