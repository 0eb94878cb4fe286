package service

import (
	"context"
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

// newMockSyncService creates a SyncService without a summary cache, backed by
// a mocked SQL connection.
func newMockSyncService(t *testing.T) (*SyncService, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := sqlx.NewDb(mockDB, "sqlmock")
	svc := NewSyncService(repository.NewMarketplaceRepository(db), repository.NewSkuMasterRepository(db), nil)
	return svc, mock, mockDB
}

func marketplaceRows(id int, code string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "code", "name", "country_code", "sync_enabled", "created_at", "updated_at"}).
		AddRow(id, code, "Amazon US", "US", true, now, now)
}

func statsRows(total, withCost, withSize int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"total", "with_cost", "with_size"}).
		AddRow(total, withCost, withSize)
}

func TestSyncService_SyncChannel(t *testing.T) {
	ctx := context.Background()

	t.Run("refresh runs before backfill and both are counted", func(t *testing.T) {
		svc, mock, mockDB := newMockSyncService(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM marketplaces WHERE code = \$1`).
			WithArgs("amazon_us").
			WillReturnRows(marketplaceRows(1, "amazon_us"))
		mock.ExpectExec("UPDATE sku_master").
			WithArgs("amazon_us").
			WillReturnResult(sqlmock.NewResult(0, 12))
		mock.ExpectExec("INSERT INTO sku_master").
			WithArgs("amazon_us").
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectQuery(`SELECT COUNT`).
			WithArgs("amazon_us").
			WillReturnRows(statsRows(15, 10, 8))

		result, err := svc.SyncChannel(ctx, "amazon_us")

		require.NoError(t, err)
		assert.Equal(t, int64(12), result.Updated)
		assert.Equal(t, int64(3), result.Inserted)
		assert.Equal(t, 15, result.Total)
		assert.Equal(t, 10, result.WithCost)
		assert.Equal(t, 8, result.WithSize)
		assert.Equal(t, "channel amazon_us: 12 refreshed, 3 inserted, 15 total (10 with cost, 8 with size)", result.Summary)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second run with no catalog change inserts nothing", func(t *testing.T) {
		svc, mock, mockDB := newMockSyncService(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM marketplaces WHERE code = \$1`).
			WithArgs("amazon_us").
			WillReturnRows(marketplaceRows(1, "amazon_us"))
		mock.ExpectExec("UPDATE sku_master").
			WillReturnResult(sqlmock.NewResult(0, 15))
		mock.ExpectExec("INSERT INTO sku_master").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT COUNT`).
			WillReturnRows(statsRows(15, 10, 8))

		result, err := svc.SyncChannel(ctx, "amazon_us")

		require.NoError(t, err)
		assert.Equal(t, int64(0), result.Inserted)
		assert.Equal(t, 15, result.Total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown channel fails without touching sku_master", func(t *testing.T) {
		svc, mock, mockDB := newMockSyncService(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM marketplaces WHERE code = \$1`).
			WithArgs("ebay_de").
			WillReturnError(sql.ErrNoRows)

		_, err := svc.SyncChannel(ctx, "ebay_de")

		assert.ErrorIs(t, err, utils.ErrMarketplaceNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("refresh failure aborts before backfill", func(t *testing.T) {
		svc, mock, mockDB := newMockSyncService(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM marketplaces WHERE code = \$1`).
			WithArgs("amazon_us").
			WillReturnRows(marketplaceRows(1, "amazon_us"))
		mock.ExpectExec("UPDATE sku_master").
			WillReturnError(sql.ErrConnDone)

		_, err := svc.SyncChannel(ctx, "amazon_us")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "refresh phase failed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSyncService_LastSummary_NoCache(t *testing.T) {
	svc, _, mockDB := newMockSyncService(t)
	defer mockDB.Close()

	summary, err := svc.LastSummary(context.Background(), "amazon_us")
	require.NoError(t, err)
	assert.Nil(t, summary)
}
