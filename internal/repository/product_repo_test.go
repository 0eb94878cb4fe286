package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockProductRepository(t *testing.T) (*ProductRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := sqlx.NewDb(mockDB, "sqlmock")
	return NewProductRepository(db), mock, mockDB
}

func productRows(id int, name string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "category", "base_cost", "size", "weight", "width", "height",
		"length", "source", "product_sku", "parent", "cost_profile_id", "created_at", "updated_at",
	}).AddRow(id, name, "gadgets", "3.50", nil, nil, nil, nil, nil, "", "", nil, nil, now, now)
}

func TestProductRepository_GetByName(t *testing.T) {
	t.Run("matches on the case-folded trimmed name", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM products WHERE lower\(name\) = lower\(btrim\(\$1\)\)`).
			WithArgs(" WIDGET a ").
			WillReturnRows(productRows(7, "Widget A"))

		p, err := repo.GetByName(" WIDGET a ")

		require.NoError(t, err)
		assert.Equal(t, 7, p.ID)
		assert.Equal(t, "Widget A", p.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows passes through", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM products WHERE lower\(name\)`).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByName("missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_UpsertBatch(t *testing.T) {
	t.Run("counts created vs updated from the returned flags", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		cost := decimal.RequireFromString("3.50")
		category := "gadgets"
		rows := []ProductImportRow{
			{Name: "Widget A", Category: &category, BaseCost: &cost},
			{Name: "Widget B"},
			{Name: "Widget C"},
		}

		mock.ExpectQuery("INSERT INTO products").
			WillReturnRows(sqlmock.NewRows([]string{"inserted"}).
				AddRow(true).AddRow(false).AddRow(true))

		created, updated, err := repo.UpsertBatch(rows)

		require.NoError(t, err)
		assert.Equal(t, 2, created)
		assert.Equal(t, 1, updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty input issues no statement", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		created, updated, err := repo.UpsertBatch(nil)

		require.NoError(t, err)
		assert.Equal(t, 0, created)
		assert.Equal(t, 0, updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("statement error is returned", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery("INSERT INTO products").
			WillReturnError(sql.ErrConnDone)

		_, _, err := repo.UpsertBatch([]ProductImportRow{{Name: "Widget A"}})

		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
