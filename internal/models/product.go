package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog product. Name is the natural key: lookups and
// bulk upserts match on the trimmed, case-folded name.
// Fields are tagged for both DB scanning and JSON serialization.
type Product struct {
	ID            int                 `db:"id" json:"id"`
	Name          string              `db:"name" json:"name"`
	Category      string              `db:"category" json:"category"`
	BaseCost      decimal.NullDecimal `db:"base_cost" json:"baseCost"`
	Size          *string             `db:"size" json:"size"`
	Weight        *float64            `db:"weight" json:"weight"`
	Width         *float64            `db:"width" json:"width"`
	Height        *float64            `db:"height" json:"height"`
	Length        *float64            `db:"length" json:"length"`
	Source        string              `db:"source" json:"source"`
	ProductSKU    string              `db:"product_sku" json:"productSku"`
	Parent        *string             `db:"parent" json:"parent"`
	CostProfileID *int                `db:"cost_profile_id" json:"costProfileId"`
	CreatedAt     time.Time           `db:"created_at" json:"-"`
	UpdatedAt     time.Time           `db:"updated_at" json:"updatedAt"`
}

// EffectiveValues is the computed cost/dimension view of a product with its
// cost profile overlaid: profile value if present, else the product's own.
// Never persisted.
type EffectiveValues struct {
	Cost   decimal.NullDecimal `json:"cost"`
	Size   *string             `json:"size"`
	Weight *float64            `json:"weight"`
	Width  *float64            `json:"width"`
	Height *float64            `json:"height"`
	Length *float64            `json:"length"`
}

// Effective computes the effective cost/dimension values for the product.
// A nil profile yields the product's own values.
func (p *Product) Effective(profile *CostProfile) EffectiveValues {
	ev := EffectiveValues{
		Cost:   p.BaseCost,
		Size:   p.Size,
		Weight: p.Weight,
		Width:  p.Width,
		Height: p.Height,
		Length: p.Length,
	}
	if profile == nil {
		return ev
	}
	if profile.BaseCost.Valid {
		ev.Cost = profile.BaseCost
	}
	if profile.Size != nil {
		ev.Size = profile.Size
	}
	if profile.Weight != nil {
		ev.Weight = profile.Weight
	}
	if profile.Width != nil {
		ev.Width = profile.Width
	}
	if profile.Height != nil {
		ev.Height = profile.Height
	}
	if profile.Length != nil {
		ev.Length = profile.Length
	}
	return ev
}
