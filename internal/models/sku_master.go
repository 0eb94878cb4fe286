package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SkuMasterRecord is a denormalized row in the sku_master lookup table, keyed
// by (sku, marketplace, country_code). A row is either the projection of a
// matched mapping+product pair, refreshed by the channel synchronizer, or a
// placeholder created from an external observation with no catalog match yet.
// The source tables stay authoritative; this table is a derived view.
type SkuMasterRecord struct {
	ID          int                 `db:"id" json:"id"`
	SKU         string              `db:"sku" json:"sku"`
	Marketplace string              `db:"marketplace" json:"marketplace"`
	CountryCode string              `db:"country_code" json:"countryCode"`
	Name        string              `db:"name" json:"name"`
	Parent      string              `db:"parent" json:"parent"`
	ASIN        string              `db:"asin" json:"asin"`
	Category    string              `db:"category" json:"category"`
	Cost        decimal.NullDecimal `db:"cost" json:"cost"`
	Size        *string             `db:"size" json:"size"`
	ShipWeight  *float64            `db:"ship_weight" json:"shipWeight"`
	ShipWidth   *float64            `db:"ship_width" json:"shipWidth"`
	ShipHeight  *float64            `db:"ship_height" json:"shipHeight"`
	ShipLength  *float64            `db:"ship_length" json:"shipLength"`
	Fulfillment string              `db:"fulfillment" json:"fulfillment"`
	CreatedAt   time.Time           `db:"created_at" json:"-"`
	UpdatedAt   time.Time           `db:"updated_at" json:"updatedAt"`
}
