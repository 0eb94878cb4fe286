package service

import (
	"database/sql"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/sellermetrics/catalog_api/internal/models"
	"github.com/sellermetrics/catalog_api/internal/repository"
	"github.com/sellermetrics/catalog_api/internal/utils"
)

// ListingService handles CRUD and bulk creation of product-to-channel SKU
// mappings.
type ListingService struct {
	listingRepo     *repository.ListingRepository
	marketplaceRepo *repository.MarketplaceRepository
	productRepo     *repository.ProductRepository
}

// NewListingService constructs a ListingService.
func NewListingService(listingRepo *repository.ListingRepository, marketplaceRepo *repository.MarketplaceRepository, productRepo *repository.ProductRepository) *ListingService {
	return &ListingService{
		listingRepo:     listingRepo,
		marketplaceRepo: marketplaceRepo,
		productRepo:     productRepo,
	}
}

// ListingEntry is one record of a bulk mapping request.
type ListingEntry struct {
	ProductID       int              `json:"productId"`
	CountryCode     string           `json:"countryCode"`
	SKU             string           `json:"sku"`
	ASIN            string           `json:"asin"`
	ListingPrice    *decimal.Decimal `json:"listingPrice"`
	FulfillmentType string           `json:"fulfillmentType"`
	Status          string           `json:"status"`
}

// ListingBulkResult aggregates the outcome of a bulk mapping request.
// Entries failing validation are skipped without aborting the batch.
type ListingBulkResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// BulkUpsert applies mapping entries for one marketplace, one upsert per
// entry keyed on (product_id, marketplace_id, country_code, sku). Invalid
// entries (no product id or SKU) are skipped; valid ones are created or
// updated.
func (s *ListingService) BulkUpsert(marketplaceID int, entries []ListingEntry) (*ListingBulkResult, error) {
	m, err := s.marketplaceRepo.GetByID(marketplaceID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, utils.ErrMarketplaceNotFound
	}

	result := &ListingBulkResult{}
	for _, e := range entries {
		sku := strings.TrimSpace(e.SKU)
		if e.ProductID <= 0 || sku == "" {
			result.Skipped++
			continue
		}

		countryCode := strings.TrimSpace(e.CountryCode)
		if countryCode == "" {
			countryCode = m.CountryCode
		}

		listing := &models.MarketplaceProductData{
			ProductID:       e.ProductID,
			MarketplaceID:   marketplaceID,
			CountryCode:     countryCode,
			SKU:             sku,
			ASIN:            strings.TrimSpace(e.ASIN),
			FulfillmentType: e.FulfillmentType,
			Status:          e.Status,
		}
		if e.ListingPrice != nil {
			listing.ListingPrice = decimal.NullDecimal{Decimal: *e.ListingPrice, Valid: true}
		}

		inserted, err := s.listingRepo.Upsert(listing)
		if err != nil {
			// Per-record partial success: a bad reference (e.g. unknown
			// product id) skips the entry, not the batch.
			log.Warn().Err(err).
				Int("product_id", e.ProductID).
				Str("sku", sku).
				Msg("listing upsert skipped")
			result.Skipped++
			continue
		}
		if inserted {
			result.Added++
		} else {
			result.Updated++
		}
	}

	log.Info().
		Int("marketplace_id", marketplaceID).
		Int("added", result.Added).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Msg("listing bulk upsert completed")
	return result, nil
}

// UpdateListing updates a single mapping by id.
func (s *ListingService) UpdateListing(id int, entry ListingEntry) (*models.MarketplaceProductData, error) {
	listing, err := s.listingRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrListingNotFound
		}
		return nil, err
	}

	if sku := strings.TrimSpace(entry.SKU); sku != "" {
		listing.SKU = sku
	}
	if cc := strings.TrimSpace(entry.CountryCode); cc != "" {
		listing.CountryCode = cc
	}
	if asin := strings.TrimSpace(entry.ASIN); asin != "" {
		listing.ASIN = asin
	}
	if entry.ListingPrice != nil {
		listing.ListingPrice = decimal.NullDecimal{Decimal: *entry.ListingPrice, Valid: true}
	}
	if entry.FulfillmentType != "" {
		listing.FulfillmentType = entry.FulfillmentType
	}
	if entry.Status != "" {
		listing.Status = entry.Status
	}

	if err := s.listingRepo.Update(listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// DeleteListing deletes a single mapping by id.
func (s *ListingService) DeleteListing(id int) error {
	if _, err := s.listingRepo.GetByID(id); err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrListingNotFound
		}
		return err
	}
	return s.listingRepo.Delete(id)
}
