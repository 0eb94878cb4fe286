package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/sellermetrics/catalog_api/internal/models"
)

// ListingRepository handles data access for marketplace_product_data, the
// product-to-channel SKU mappings.
type ListingRepository struct {
	db *sqlx.DB
}

// NewListingRepository creates a new ListingRepository.
func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// GetByProductID returns all channel mappings for a product.
func (r *ListingRepository) GetByProductID(productID int) ([]models.MarketplaceProductData, error) {
	const q = `SELECT * FROM marketplace_product_data WHERE product_id = $1 ORDER BY marketplace_id, country_code, sku`
	var out []models.MarketplaceProductData
	if err := r.db.Select(&out, q, productID); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns a single mapping by id.
func (r *ListingRepository) GetByID(id int) (*models.MarketplaceProductData, error) {
	const q = `SELECT * FROM marketplace_product_data WHERE id = $1 LIMIT 1`
	var l models.MarketplaceProductData
	if err := r.db.Get(&l, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &l, nil
}

// Upsert inserts or updates a mapping on its composite uniqueness constraint
// and reports whether the row was newly inserted. Incoming NULL listing
// prices keep the stored price; asin, fulfillment_type and status always take
// the incoming value.
func (r *ListingRepository) Upsert(l *models.MarketplaceProductData) (bool, error) {
	const q = `
        INSERT INTO marketplace_product_data (product_id, marketplace_id, country_code, sku, asin, listing_price, fulfillment_type, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (product_id, marketplace_id, country_code, sku) DO UPDATE SET
            asin = EXCLUDED.asin,
            listing_price = COALESCE(EXCLUDED.listing_price, marketplace_product_data.listing_price),
            fulfillment_type = EXCLUDED.fulfillment_type,
            status = EXCLUDED.status,
            updated_at = NOW()
        RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`

	var inserted bool
	err := r.db.QueryRowx(q,
		l.ProductID,
		l.MarketplaceID,
		l.CountryCode,
		l.SKU,
		l.ASIN,
		l.ListingPrice,
		l.FulfillmentType,
		l.Status,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt, &inserted)
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// Update updates an existing mapping.
func (r *ListingRepository) Update(l *models.MarketplaceProductData) error {
	const q = `UPDATE marketplace_product_data
        SET country_code = $1, sku = $2, asin = $3, listing_price = $4,
            fulfillment_type = $5, status = $6, updated_at = NOW()
        WHERE id = $7
        RETURNING updated_at`
	return r.db.QueryRowx(q,
		l.CountryCode,
		l.SKU,
		l.ASIN,
		l.ListingPrice,
		l.FulfillmentType,
		l.Status,
		l.ID,
	).Scan(&l.UpdatedAt)
}

// Delete deletes a mapping by ID.
func (r *ListingRepository) Delete(id int) error {
	const q = `DELETE FROM marketplace_product_data WHERE id = $1`
	_, err := r.db.Exec(q, id)
	return err
}
