package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/sellermetrics/catalog_api/internal/models"
)

// SkuMasterRepository handles data access for the derived sku_master lookup
// table. Rows are keyed by (sku, marketplace, country_code).
type SkuMasterRepository struct {
	db *sqlx.DB
}

// NewSkuMasterRepository creates a new SkuMasterRepository.
func NewSkuMasterRepository(db *sqlx.DB) *SkuMasterRepository {
	return &SkuMasterRepository{db: db}
}

// ChannelStats aggregates coverage counts over one channel's records.
type ChannelStats struct {
	Total    int `db:"total"`
	WithCost int `db:"with_cost"`
	WithSize int `db:"with_size"`
}

// RefreshFromCatalog overwrites the derived fields of every sku_master row
// that matches a mapping+product pair on the given channel. Cost and
// dimensions are the effective values: cost profile first, then the product's
// own. Parent falls back to the product's own SKU code when the product has
// no parent. Returns the number of refreshed rows.
func (r *SkuMasterRepository) RefreshFromCatalog(channel string) (int64, error) {
	const q = `
        UPDATE sku_master sm SET
            name = p.name,
            parent = COALESCE(NULLIF(p.parent, ''), p.product_sku),
            category = p.category,
            cost = COALESCE(cp.base_cost, p.base_cost),
            size = COALESCE(cp.size, p.size),
            ship_weight = COALESCE(cp.weight, p.weight),
            ship_width = COALESCE(cp.width, p.width),
            ship_height = COALESCE(cp.height, p.height),
            ship_length = COALESCE(cp.length, p.length),
            fulfillment = mpd.fulfillment_type,
            updated_at = NOW()
        FROM marketplace_product_data mpd
        JOIN marketplaces m ON m.id = mpd.marketplace_id
        JOIN products p ON p.id = mpd.product_id
        LEFT JOIN cost_profiles cp ON cp.id = p.cost_profile_id
        WHERE m.code = $1
          AND sm.marketplace = m.code
          AND sm.sku = mpd.sku
          AND sm.country_code = mpd.country_code`

	res, err := r.db.Exec(q, channel)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// BackfillMissing inserts a sku_master row for every mapping+product pair on
// the channel that has a non-empty SKU and no sku_master row yet, using the
// same derivation as RefreshFromCatalog. A concurrent insert of the same key
// wins: the conflict is absorbed as a no-op. Returns the number of inserted
// rows.
func (r *SkuMasterRepository) BackfillMissing(channel string) (int64, error) {
	const q = `
        INSERT INTO sku_master (sku, marketplace, country_code, name, parent, asin, category, cost, size, ship_weight, ship_width, ship_height, ship_length, fulfillment)
        SELECT mpd.sku, m.code, mpd.country_code, p.name,
               COALESCE(NULLIF(p.parent, ''), p.product_sku),
               mpd.asin, p.category,
               COALESCE(cp.base_cost, p.base_cost),
               COALESCE(cp.size, p.size),
               COALESCE(cp.weight, p.weight),
               COALESCE(cp.width, p.width),
               COALESCE(cp.height, p.height),
               COALESCE(cp.length, p.length),
               mpd.fulfillment_type
        FROM marketplace_product_data mpd
        JOIN marketplaces m ON m.id = mpd.marketplace_id
        JOIN products p ON p.id = mpd.product_id
        LEFT JOIN cost_profiles cp ON cp.id = p.cost_profile_id
        WHERE m.code = $1
          AND mpd.sku <> ''
          AND NOT EXISTS (
              SELECT 1 FROM sku_master sm
              WHERE sm.sku = mpd.sku
                AND sm.marketplace = m.code
                AND sm.country_code = mpd.country_code)
        ON CONFLICT (sku, marketplace, country_code) DO NOTHING`

	res, err := r.db.Exec(q, channel)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// InsertPlaceholder inserts a placeholder row for an externally observed SKU
// with no catalog match yet. An existing row with the same key is left
// untouched; the return value reports whether a row was actually added.
func (r *SkuMasterRepository) InsertPlaceholder(rec *models.SkuMasterRecord) (bool, error) {
	const q = `
        INSERT INTO sku_master (sku, marketplace, country_code, name, parent, asin, category, fulfillment)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (sku, marketplace, country_code) DO NOTHING`

	res, err := r.db.Exec(q,
		rec.SKU,
		rec.Marketplace,
		rec.CountryCode,
		rec.Name,
		rec.Parent,
		rec.ASIN,
		rec.Category,
		rec.Fulfillment,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Stats returns aggregate coverage counts for a channel.
func (r *SkuMasterRepository) Stats(channel string) (*ChannelStats, error) {
	const q = `
        SELECT COUNT(1) AS total,
               COUNT(cost) AS with_cost,
               COUNT(NULLIF(size, '')) AS with_size
        FROM sku_master
        WHERE marketplace = $1`

	var s ChannelStats
	if err := r.db.Get(&s, q, channel); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetAllPaged returns sku_master rows with filters and pagination plus total
// count. Filters: marketplace (exact), search (ILIKE on sku and name). Empty
// filters are ignored. Page begins at 1.
func (r *SkuMasterRepository) GetAllPaged(marketplace, search string, page, limit int) ([]models.SkuMasterRecord, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	offset := (page - 1) * limit

	const baseWhere = `WHERE ($1 = '' OR marketplace = $1)
        AND ($2 = '' OR sku ILIKE '%%' || $2 || '%%' OR name ILIKE '%%' || $2 || '%%')`

	countQuery := `SELECT COUNT(1) FROM sku_master ` + baseWhere
	var total int
	if err := r.db.Get(&total, countQuery, marketplace, search); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT * FROM sku_master ` + baseWhere + `
        ORDER BY marketplace, sku LIMIT $3 OFFSET $4`
	var records []models.SkuMasterRecord
	if err := r.db.Select(&records, listQuery, marketplace, search, limit, offset); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
