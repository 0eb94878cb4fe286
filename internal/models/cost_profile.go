package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostProfile is a shared cost/dimension template. A product referencing a
// profile takes the profile's non-null values over its own (see
// Product.Effective). Profile CRUD lives in the settings backend; this
// service only reads profiles.
type CostProfile struct {
	ID        int                 `db:"id" json:"id"`
	Name      string              `db:"name" json:"name"`
	BaseCost  decimal.NullDecimal `db:"base_cost" json:"baseCost"`
	Size      *string             `db:"size" json:"size"`
	Weight    *float64            `db:"weight" json:"weight"`
	Width     *float64            `db:"width" json:"width"`
	Height    *float64            `db:"height" json:"height"`
	Length    *float64            `db:"length" json:"length"`
	CreatedAt time.Time           `db:"created_at" json:"-"`
	UpdatedAt time.Time           `db:"updated_at" json:"updatedAt"`
}
