package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellermetrics/catalog_api/internal/repository"
)

// newMockImportService creates an ImportService backed by a mocked SQL
// connection.
func newMockImportService(t *testing.T, chunkSize int) (*ImportService, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := sqlx.NewDb(mockDB, "sqlmock")
	svc := NewImportService(repository.NewProductRepository(db), nil, chunkSize)
	return svc, mock, mockDB
}

func insertedRows(values ...bool) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"inserted"})
	for _, v := range values {
		rows.AddRow(v)
	}
	return rows
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "widget a", normalizeKey("  Widget A "))
	assert.Equal(t, "widget a", normalizeKey("WIDGET A"))
	assert.Equal(t, "widget a", normalizeKey("Wid|get A"))
	assert.Equal(t, "", normalizeKey("   "))
	assert.Equal(t, "", normalizeKey("|||"))
}

func TestCompositeKey(t *testing.T) {
	assert.Equal(t, "b07x|amazon_us|us", compositeKey(" B07X ", "Amazon_US", "us"))

	// A delimiter inside a part cannot fabricate a different composite key.
	assert.NotEqual(t, compositeKey("a|b", "c"), compositeKey("a", "b|c"))
	assert.Equal(t, compositeKey("a|b", "c"), compositeKey("ab", "c"))
}

func TestDedupeRecords(t *testing.T) {
	t.Run("last occurrence wins, first-seen order kept", func(t *testing.T) {
		records := []ImportProductRecord{
			{Name: "Widget A", Category: strPtr("gadgets")},
			{Name: "Widget B"},
			{Name: "  widget a ", BaseCost: decPtr("3.50")},
		}

		out := dedupeRecords(records)
		require.Len(t, out, 2)
		assert.Equal(t, "  widget a ", out[0].Name)
		assert.Nil(t, out[0].Category)
		assert.Equal(t, "3.50", out[0].BaseCost.String())
		assert.Equal(t, "Widget B", out[1].Name)
	})

	t.Run("empty keys are dropped", func(t *testing.T) {
		records := []ImportProductRecord{{Name: "   "}, {Name: "Widget A"}}
		out := dedupeRecords(records)
		require.Len(t, out, 1)
		assert.Equal(t, "Widget A", out[0].Name)
	})

	t.Run("idempotent on its own output", func(t *testing.T) {
		records := []ImportProductRecord{
			{Name: "Widget A"},
			{Name: "WIDGET A"},
			{Name: "Widget B"},
		}
		once := dedupeRecords(records)
		assert.Equal(t, once, dedupeRecords(once))
	})
}

func TestImportService_BulkImport(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicates collapse into one upserted row", func(t *testing.T) {
		svc, mock, mockDB := newMockImportService(t, 500)
		defer mockDB.Close()

		mock.ExpectQuery("INSERT INTO products").
			WillReturnRows(insertedRows(true))

		result, err := svc.BulkImport(ctx, []ImportProductRecord{
			{Name: "Widget A", Category: strPtr("gadgets")},
			{Name: " widget a ", BaseCost: decPtr("3.50")},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Added)
		assert.Equal(t, 0, result.Updated)
		assert.Equal(t, 0, result.Skipped)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("blank names are counted as skipped", func(t *testing.T) {
		svc, mock, mockDB := newMockImportService(t, 500)
		defer mockDB.Close()

		mock.ExpectQuery("INSERT INTO products").
			WillReturnRows(insertedRows(false))

		result, err := svc.BulkImport(ctx, []ImportProductRecord{
			{Name: "   "},
			{Name: "Widget A"},
		})

		require.NoError(t, err)
		assert.Equal(t, 0, result.Added)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, 1, result.Skipped)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty batch touches nothing", func(t *testing.T) {
		svc, mock, mockDB := newMockImportService(t, 500)
		defer mockDB.Close()

		result, err := svc.BulkImport(ctx, nil)

		require.NoError(t, err)
		assert.Equal(t, &ImportResult{}, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("batch larger than chunk size is split", func(t *testing.T) {
		svc, mock, mockDB := newMockImportService(t, 2)
		defer mockDB.Close()

		mock.ExpectQuery("INSERT INTO products").
			WillReturnRows(insertedRows(true, false))
		mock.ExpectQuery("INSERT INTO products").
			WillReturnRows(insertedRows(true))

		result, err := svc.BulkImport(ctx, []ImportProductRecord{
			{Name: "Widget A"},
			{Name: "Widget B"},
			{Name: "Widget C"},
		})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Added)
		assert.Equal(t, 1, result.Updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed chunk returns committed counts with the error", func(t *testing.T) {
		svc, mock, mockDB := newMockImportService(t, 1)
		defer mockDB.Close()

		mock.ExpectQuery("INSERT INTO products").
			WillReturnRows(insertedRows(true))
		mock.ExpectQuery("INSERT INTO products").
			WillReturnError(sql.ErrConnDone)

		result, err := svc.BulkImport(ctx, []ImportProductRecord{
			{Name: "Widget A"},
			{Name: "Widget B"},
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "import chunk 2 of 2")
		assert.Equal(t, 1, result.Added)
		assert.Equal(t, 0, result.Updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("canceled context stops before the next chunk", func(t *testing.T) {
		svc, mock, mockDB := newMockImportService(t, 1)
		defer mockDB.Close()

		canceled, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := svc.BulkImport(canceled, []ImportProductRecord{{Name: "Widget A"}})

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, result.Added)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestImportService_ImportFromS3_NoBucket(t *testing.T) {
	svc, _, mockDB := newMockImportService(t, 500)
	defer mockDB.Close()

	_, err := svc.ImportFromS3(context.Background(), "", "feed.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no feed bucket configured")
}
