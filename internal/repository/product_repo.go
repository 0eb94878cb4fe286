package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/sellermetrics/catalog_api/internal/models"
)

// ProductRepository handles data access for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ProductImportRow is one normalized record of a bulk import batch. Nil
// pointers mean the field was not supplied and the stored value is kept;
// Name is always present and always overwrites (it carries the incoming
// casing/trim of the natural key).
type ProductImportRow struct {
	Name       string
	Category   *string
	BaseCost   *decimal.Decimal
	Size       *string
	Weight     *float64
	Width      *float64
	Height     *float64
	Length     *float64
	Source     *string
	ProductSKU *string
	Parent     *string
}

// GetAllPaged returns products with filters and pagination plus total count.
// Filters: category (exact), search (ILIKE on name). Empty filters are
// ignored. Page begins at 1.
func (r *ProductRepository) GetAllPaged(category, search string, page, limit int) ([]models.Product, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	offset := (page - 1) * limit

	const baseWhere = `WHERE ($1 = '' OR category = $1)
        AND ($2 = '' OR name ILIKE '%%' || $2 || '%%')`

	countQuery := `SELECT COUNT(1) FROM products ` + baseWhere
	var total int
	if err := r.db.Get(&total, countQuery, category, search); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT * FROM products ` + baseWhere + `
        ORDER BY category, name LIMIT $3 OFFSET $4`
	var products []models.Product
	if err := r.db.Select(&products, listQuery, category, search, limit, offset); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetByID returns a single product by id.
func (r *ProductRepository) GetByID(id int) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE id = $1 LIMIT 1`
	var p models.Product
	if err := r.db.Get(&p, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &p, nil
}

// GetByName returns a single product by its natural key, matching the
// trimmed, case-folded name.
func (r *ProductRepository) GetByName(name string) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE lower(name) = lower(btrim($1)) LIMIT 1`
	var p models.Product
	if err := r.db.Get(&p, q, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &p, nil
}

// Create creates a new product.
func (r *ProductRepository) Create(p *models.Product) error {
	const q = `
        INSERT INTO products (name, category, base_cost, size, weight, width, height, length, source, product_sku, parent, cost_profile_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(q,
		p.Name,
		p.Category,
		p.BaseCost,
		p.Size,
		p.Weight,
		p.Width,
		p.Height,
		p.Length,
		p.Source,
		p.ProductSKU,
		p.Parent,
		p.CostProfileID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update updates an existing product with the already-merged field values.
func (r *ProductRepository) Update(p *models.Product) error {
	const q = `UPDATE products
        SET name = $1, category = $2, base_cost = $3, size = $4, weight = $5,
            width = $6, height = $7, length = $8, source = $9, product_sku = $10,
            parent = $11, cost_profile_id = $12, updated_at = NOW()
        WHERE id = $13
        RETURNING updated_at`

	return r.db.QueryRowx(q,
		p.Name,
		p.Category,
		p.BaseCost,
		p.Size,
		p.Weight,
		p.Width,
		p.Height,
		p.Length,
		p.Source,
		p.ProductSKU,
		p.Parent,
		p.CostProfileID,
		p.ID,
	).Scan(&p.UpdatedAt)
}

// Delete deletes a product by ID. Marketplace listings cascade.
func (r *ProductRepository) Delete(id int) error {
	const q = `DELETE FROM products WHERE id = $1`
	_, err := r.db.Exec(q, id)
	return err
}

// UpsertBatch applies one chunk of pre-deduplicated import rows in a single
// INSERT ... ON CONFLICT statement, so the chunk is atomic: either all rows
// land or none do. Rows must not repeat a natural key within the chunk.
//
// Merge policy per column: name always takes the incoming value (it carries
// the latest casing of the natural key); every other column falls back to the
// stored value when the incoming value is absent. Absent is NULL for nullable
// columns and the empty string for the non-null text columns.
//
// Each returned row carries (xmax = 0), true for a fresh insert, which is how
// created vs updated is counted without a prior read.
func (r *ProductRepository) UpsertBatch(rows []ProductImportRow) (created int, updated int, err error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	const cols = 11
	valueStrings := make([]string, 0, len(rows))
	args := make([]interface{}, 0, len(rows)*cols)
	for i, row := range rows {
		base := i * cols
		ph := make([]string, cols)
		for j := range ph {
			ph[j] = fmt.Sprintf("$%d", base+j+1)
		}
		// category, source and product_sku are NOT NULL; absent values land
		// as empty strings.
		for _, j := range []int{1, 8, 9} {
			ph[j] = "COALESCE(" + ph[j] + ", '')"
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ", ")+")")
		args = append(args,
			row.Name,
			row.Category,
			row.BaseCost,
			row.Size,
			row.Weight,
			row.Width,
			row.Height,
			row.Length,
			row.Source,
			row.ProductSKU,
			row.Parent,
		)
	}

	query := `
        INSERT INTO products (name, category, base_cost, size, weight, width, height, length, source, product_sku, parent)
        VALUES ` + strings.Join(valueStrings, ", ") + `
        ON CONFLICT (lower(name)) DO UPDATE SET
            name = EXCLUDED.name,
            category = COALESCE(NULLIF(EXCLUDED.category, ''), products.category),
            base_cost = COALESCE(EXCLUDED.base_cost, products.base_cost),
            size = COALESCE(EXCLUDED.size, products.size),
            weight = COALESCE(EXCLUDED.weight, products.weight),
            width = COALESCE(EXCLUDED.width, products.width),
            height = COALESCE(EXCLUDED.height, products.height),
            length = COALESCE(EXCLUDED.length, products.length),
            source = COALESCE(NULLIF(EXCLUDED.source, ''), products.source),
            product_sku = COALESCE(NULLIF(EXCLUDED.product_sku, ''), products.product_sku),
            parent = COALESCE(EXCLUDED.parent, products.parent),
            updated_at = NOW()
        RETURNING (xmax = 0) AS inserted`

	result, err := r.db.Query(query, args...)
	if err != nil {
		return 0, 0, err
	}
	defer result.Close()

	for result.Next() {
		var inserted bool
		if err := result.Scan(&inserted); err != nil {
			return 0, 0, err
		}
		if inserted {
			created++
		} else {
			updated++
		}
	}
	if err := result.Err(); err != nil {
		return 0, 0, err
	}
	return created, updated, nil
}
