package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/sellermetrics/catalog_api/internal/models"
)

// MarketplaceRepository handles data access for marketplaces.
type MarketplaceRepository struct {
	db *sqlx.DB
}

// NewMarketplaceRepository creates a new MarketplaceRepository.
func NewMarketplaceRepository(db *sqlx.DB) *MarketplaceRepository {
	return &MarketplaceRepository{db: db}
}

// GetAll returns all marketplaces. When syncEnabledOnly is true, only
// channels flagged for scheduled synchronization are returned.
func (r *MarketplaceRepository) GetAll(syncEnabledOnly bool) ([]models.Marketplace, error) {
	const q = `SELECT * FROM marketplaces WHERE ($1 = false OR sync_enabled = true) ORDER BY code`
	var out []models.Marketplace
	if err := r.db.Select(&out, q, syncEnabledOnly); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns a single marketplace by id.
func (r *MarketplaceRepository) GetByID(id int) (*models.Marketplace, error) {
	const q = `SELECT * FROM marketplaces WHERE id = $1 LIMIT 1`
	var m models.Marketplace
	if err := r.db.Get(&m, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// GetByCode returns a single marketplace by its channel code.
func (r *MarketplaceRepository) GetByCode(code string) (*models.Marketplace, error) {
	const q = `SELECT * FROM marketplaces WHERE code = $1 LIMIT 1`
	var m models.Marketplace
	if err := r.db.Get(&m, q, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// Create creates a new marketplace.
func (r *MarketplaceRepository) Create(m *models.Marketplace) error {
	const q = `
        INSERT INTO marketplaces (code, name, country_code, sync_enabled)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRowx(q, m.Code, m.Name, m.CountryCode, m.SyncEnabled).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

// Update updates an existing marketplace.
func (r *MarketplaceRepository) Update(m *models.Marketplace) error {
	const q = `UPDATE marketplaces
        SET code = $1, name = $2, country_code = $3, sync_enabled = $4, updated_at = NOW()
        WHERE id = $5
        RETURNING updated_at`
	return r.db.QueryRowx(q, m.Code, m.Name, m.CountryCode, m.SyncEnabled, m.ID).
		Scan(&m.UpdatedAt)
}
