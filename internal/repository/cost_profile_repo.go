package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/sellermetrics/catalog_api/internal/models"
)

// CostProfileRepository reads cost/dimension templates. Profile CRUD is owned
// by the settings backend; this service only resolves effective values.
type CostProfileRepository struct {
	db *sqlx.DB
}

// NewCostProfileRepository creates a new CostProfileRepository.
func NewCostProfileRepository(db *sqlx.DB) *CostProfileRepository {
	return &CostProfileRepository{db: db}
}

// GetAll returns all cost profiles.
func (r *CostProfileRepository) GetAll() ([]models.CostProfile, error) {
	const q = `SELECT * FROM cost_profiles ORDER BY name`
	var out []models.CostProfile
	if err := r.db.Select(&out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns a single cost profile by id, or nil when absent.
func (r *CostProfileRepository) GetByID(id int) (*models.CostProfile, error) {
	const q = `SELECT * FROM cost_profiles WHERE id = $1 LIMIT 1`
	var cp models.CostProfile
	if err := r.db.Get(&cp, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &cp, nil
}
