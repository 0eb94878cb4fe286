package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellermetrics/catalog_api/internal/repository"
	"github.com/sellermetrics/catalog_api/internal/utils"
)

func newMockListingService(t *testing.T) (*ListingService, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := sqlx.NewDb(mockDB, "sqlmock")
	svc := NewListingService(
		repository.NewListingRepository(db),
		repository.NewMarketplaceRepository(db),
		repository.NewProductRepository(db),
	)
	return svc, mock, mockDB
}

func upsertedListingRows(id int, inserted bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "created_at", "updated_at", "inserted"}).
		AddRow(id, now, now, inserted)
}

func TestListingService_BulkUpsert(t *testing.T) {
	t.Run("mixed batch counts added, updated and skipped", func(t *testing.T) {
		svc, mock, mockDB := newMockListingService(t)
		defer mockDB.Close()

		now := time.Now()
		mock.ExpectQuery(`SELECT \* FROM marketplaces WHERE id = \$1`).
			WithArgs(4).
			WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "country_code", "sync_enabled", "created_at", "updated_at"}).
				AddRow(4, "amazon_us", "Amazon US", "US", true, now, now))
		mock.ExpectQuery("INSERT INTO marketplace_product_data").
			WillReturnRows(upsertedListingRows(10, true))
		mock.ExpectQuery("INSERT INTO marketplace_product_data").
			WillReturnRows(upsertedListingRows(11, false))

		result, err := svc.BulkUpsert(4, []ListingEntry{
			{ProductID: 1, SKU: "WID-A-US"},
			{ProductID: 2, SKU: "WID-B-US"},
			{ProductID: 0, SKU: "NO-PRODUCT"},
			{ProductID: 3, SKU: "   "},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Added)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, 2, result.Skipped)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("entry country falls back to the marketplace country", func(t *testing.T) {
		svc, mock, mockDB := newMockListingService(t)
		defer mockDB.Close()

		now := time.Now()
		mock.ExpectQuery(`SELECT \* FROM marketplaces WHERE id = \$1`).
			WithArgs(4).
			WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "country_code", "sync_enabled", "created_at", "updated_at"}).
				AddRow(4, "amazon_us", "Amazon US", "US", true, now, now))
		mock.ExpectQuery("INSERT INTO marketplace_product_data").
			WithArgs(1, 4, "US", "WID-A-US", "", nil, "", "").
			WillReturnRows(upsertedListingRows(10, true))

		result, err := svc.BulkUpsert(4, []ListingEntry{{ProductID: 1, SKU: " WID-A-US "}})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Added)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown marketplace aborts the batch", func(t *testing.T) {
		svc, mock, mockDB := newMockListingService(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM marketplaces WHERE id = \$1`).
			WithArgs(99).
			WillReturnError(sql.ErrNoRows)

		_, err := svc.BulkUpsert(99, []ListingEntry{{ProductID: 1, SKU: "WID-A-US"}})

		assert.ErrorIs(t, err, utils.ErrMarketplaceNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a failing entry is skipped, not fatal", func(t *testing.T) {
		svc, mock, mockDB := newMockListingService(t)
		defer mockDB.Close()

		now := time.Now()
		mock.ExpectQuery(`SELECT \* FROM marketplaces WHERE id = \$1`).
			WithArgs(4).
			WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "country_code", "sync_enabled", "created_at", "updated_at"}).
				AddRow(4, "amazon_us", "Amazon US", "US", true, now, now))
		mock.ExpectQuery("INSERT INTO marketplace_product_data").
			WillReturnError(sql.ErrConnDone)
		mock.ExpectQuery("INSERT INTO marketplace_product_data").
			WillReturnRows(upsertedListingRows(12, true))

		result, err := svc.BulkUpsert(4, []ListingEntry{
			{ProductID: 999, SKU: "BROKEN-REF"},
			{ProductID: 1, SKU: "WID-A-US"},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Added)
		assert.Equal(t, 1, result.Skipped)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
