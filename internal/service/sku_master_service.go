package service

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sellermetrics/catalog_api/internal/models"
	"github.com/sellermetrics/catalog_api/internal/repository"
)

// SkuMasterService handles sku_master listing and the ingestion of externally
// observed SKUs that have no catalog match yet.
type SkuMasterService struct {
	skuMasterRepo *repository.SkuMasterRepository
}

// NewSkuMasterService constructs a SkuMasterService.
func NewSkuMasterService(skuMasterRepo *repository.SkuMasterRepository) *SkuMasterService {
	return &SkuMasterService{skuMasterRepo: skuMasterRepo}
}

// MissingSKUEntry is one externally observed identifier. SKU and Marketplace
// are required; the rest is carried onto the placeholder as-is.
type MissingSKUEntry struct {
	SKU         string `json:"sku"`
	ASIN        string `json:"asin"`
	Name        string `json:"name"`
	Marketplace string `json:"marketplace"`
	CountryCode string `json:"countryCode"`
	Category    string `json:"category"`
	Fulfillment string `json:"fulfillment"`
}

// MissingSKUResult aggregates the outcome of a missing-SKU ingestion batch.
type MissingSKUResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
	Total   int `json:"total"`
}

// IngestMissing inserts a placeholder sku_master row for every valid entry
// whose key does not exist yet. Entries without a SKU or channel tag are
// skipped, as are entries whose key already has a row; existing rows are
// never modified here, only the channel synchronizer refreshes them.
func (s *SkuMasterService) IngestMissing(entries []MissingSKUEntry) (*MissingSKUResult, error) {
	result := &MissingSKUResult{Total: len(entries)}

	for _, e := range entries {
		sku := strings.TrimSpace(e.SKU)
		channel := strings.TrimSpace(e.Marketplace)
		if sku == "" || channel == "" {
			result.Skipped++
			continue
		}

		rec := &models.SkuMasterRecord{
			SKU:         sku,
			Marketplace: channel,
			CountryCode: strings.TrimSpace(e.CountryCode),
			Name:        strings.TrimSpace(e.Name),
			ASIN:        strings.TrimSpace(e.ASIN),
			Category:    strings.TrimSpace(e.Category),
			Fulfillment: strings.TrimSpace(e.Fulfillment),
		}
		added, err := s.skuMasterRepo.InsertPlaceholder(rec)
		if err != nil {
			return result, err
		}
		if added {
			result.Added++
		} else {
			result.Skipped++
		}
	}

	log.Info().
		Int("added", result.Added).
		Int("skipped", result.Skipped).
		Int("total", result.Total).
		Msg("missing SKU ingestion completed")
	return result, nil
}

// ListRecords returns sku_master rows with pagination.
func (s *SkuMasterService) ListRecords(marketplace, search string, page, limit int) ([]models.SkuMasterRecord, int, error) {
	return s.skuMasterRepo.GetAllPaged(marketplace, search, page, limit)
}
