package service

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellermetrics/catalog_api/internal/repository"
)

func newMockSkuMasterService(t *testing.T) (*SkuMasterService, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := sqlx.NewDb(mockDB, "sqlmock")
	return NewSkuMasterService(repository.NewSkuMasterRepository(db)), mock, mockDB
}

func TestSkuMasterService_IngestMissing(t *testing.T) {
	t.Run("new key is added, existing key is skipped", func(t *testing.T) {
		svc, mock, mockDB := newMockSkuMasterService(t)
		defer mockDB.Close()

		mock.ExpectExec("INSERT INTO sku_master").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO sku_master").
			WillReturnResult(sqlmock.NewResult(0, 0))

		result, err := svc.IngestMissing([]MissingSKUEntry{
			{SKU: "B07X-1", Marketplace: "amazon_us", CountryCode: "US"},
			{SKU: "B07X-1", Marketplace: "amazon_us", CountryCode: "US"},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Added)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 2, result.Total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("entries without sku or channel never reach storage", func(t *testing.T) {
		svc, mock, mockDB := newMockSkuMasterService(t)
		defer mockDB.Close()

		result, err := svc.IngestMissing([]MissingSKUEntry{
			{SKU: "  ", Marketplace: "amazon_us"},
			{SKU: "B07X-1", Marketplace: ""},
		})

		require.NoError(t, err)
		assert.Equal(t, 0, result.Added)
		assert.Equal(t, 2, result.Skipped)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("identifiers are trimmed before insert", func(t *testing.T) {
		svc, mock, mockDB := newMockSkuMasterService(t)
		defer mockDB.Close()

		mock.ExpectExec("INSERT INTO sku_master").
			WithArgs("B07X-1", "amazon_us", "US", "Widget A", "", "B0EXAMPLE", "", "FBA").
			WillReturnResult(sqlmock.NewResult(0, 1))

		result, err := svc.IngestMissing([]MissingSKUEntry{{
			SKU:         " B07X-1 ",
			Marketplace: " amazon_us ",
			CountryCode: " US ",
			Name:        " Widget A ",
			ASIN:        " B0EXAMPLE ",
			Fulfillment: " FBA ",
		}})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Added)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("storage error returns partial counts", func(t *testing.T) {
		svc, mock, mockDB := newMockSkuMasterService(t)
		defer mockDB.Close()

		mock.ExpectExec("INSERT INTO sku_master").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO sku_master").
			WillReturnError(sql.ErrConnDone)

		result, err := svc.IngestMissing([]MissingSKUEntry{
			{SKU: "A-1", Marketplace: "amazon_us"},
			{SKU: "A-2", Marketplace: "amazon_us"},
		})

		require.Error(t, err)
		assert.Equal(t, 1, result.Added)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
