package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Marketplace is an external sales channel: a platform plus country scope.
// Code is the channel tag used throughout the sku_master table.
type Marketplace struct {
	ID          int       `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	CountryCode string    `db:"country_code" json:"countryCode"`
	SyncEnabled bool      `db:"sync_enabled" json:"syncEnabled"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// MarketplaceProductData maps an internal product to a (channel, country, SKU)
// tuple. Uniqueness is over (product_id, marketplace_id, country_code, sku).
// Rows are cascade-deleted with their product.
type MarketplaceProductData struct {
	ID              int                 `db:"id" json:"id"`
	ProductID       int                 `db:"product_id" json:"productId"`
	MarketplaceID   int                 `db:"marketplace_id" json:"marketplaceId"`
	CountryCode     string              `db:"country_code" json:"countryCode"`
	SKU             string              `db:"sku" json:"sku"`
	ASIN            string              `db:"asin" json:"asin"`
	ListingPrice    decimal.NullDecimal `db:"listing_price" json:"listingPrice"`
	FulfillmentType string              `db:"fulfillment_type" json:"fulfillmentType"`
	Status          string              `db:"status" json:"status"`
	CreatedAt       time.Time           `db:"created_at" json:"-"`
	UpdatedAt       time.Time           `db:"updated_at" json:"updatedAt"`
}
