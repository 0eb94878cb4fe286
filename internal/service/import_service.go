package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/sellermetrics/catalog_api/internal/repository"
)

// keyDelimiter joins the parts of a composite natural key. It is stripped
// from key parts during normalization so it can never occur inside one.
const keyDelimiter = "|"

// ImportService runs the bulk product import pipeline: normalize keys,
// deduplicate the batch, then apply it to storage in fixed-size chunks.
type ImportService struct {
	productRepo *repository.ProductRepository
	feeds       *FeedStorage
	chunkSize   int
}

// NewImportService constructs an ImportService. feeds may be nil when no S3
// feed bucket is configured. chunkSize falls back to 500 when not positive.
func NewImportService(productRepo *repository.ProductRepository, feeds *FeedStorage, chunkSize int) *ImportService {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	return &ImportService{productRepo: productRepo, feeds: feeds, chunkSize: chunkSize}
}

// ImportProductRecord is one row of a bulk import request. Name is required;
// absent optional fields keep whatever is already stored.
type ImportProductRecord struct {
	Name       string           `json:"name" binding:"required"`
	Category   *string          `json:"category"`
	BaseCost   *decimal.Decimal `json:"baseCost"`
	Size       *string          `json:"size"`
	Weight     *float64         `json:"weight"`
	Width      *float64         `json:"width"`
	Height     *float64         `json:"height"`
	Length     *float64         `json:"length"`
	Source     *string          `json:"source"`
	ProductSKU *string          `json:"productSku"`
	Parent     *string          `json:"parent"`
}

// ImportResult aggregates the outcome of a bulk import.
type ImportResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// normalizeKey canonicalizes one natural key part: trim surrounding
// whitespace, fold case, strip the composite delimiter. Two inputs differing
// only by case or surrounding whitespace normalize identically.
func normalizeKey(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	return strings.ReplaceAll(s, keyDelimiter, "")
}

// compositeKey builds a canonical composite key from independently
// normalized parts.
func compositeKey(parts ...string) string {
	normalized := make([]string, len(parts))
	for i, p := range parts {
		normalized[i] = normalizeKey(p)
	}
	return strings.Join(normalized, keyDelimiter)
}

// dedupeRecords collapses records sharing a canonical name key; the last
// occurrence in input order wins. Records whose canonical key is empty are
// dropped. Running it on its own output is a no-op.
func dedupeRecords(records []ImportProductRecord) []ImportProductRecord {
	byKey := make(map[string]ImportProductRecord, len(records))
	order := make([]string, 0, len(records))
	for _, rec := range records {
		key := normalizeKey(rec.Name)
		if key == "" {
			continue
		}
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = rec
	}
	out := make([]ImportProductRecord, 0, len(byKey))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out
}

// BulkImport applies a batch of import records. Records with an empty natural
// key are counted as skipped; the remainder is deduplicated (last occurrence
// wins) and upserted in chunks. Chunks are applied in order and each chunk is
// atomic; when a chunk fails, the counts of previously committed chunks are
// returned together with the error. There is no cross-chunk rollback.
func (s *ImportService) BulkImport(ctx context.Context, records []ImportProductRecord) (*ImportResult, error) {
	result := &ImportResult{}

	validCount := 0
	for _, rec := range records {
		if normalizeKey(rec.Name) == "" {
			result.Skipped++
			continue
		}
		validCount++
	}

	deduped := dedupeRecords(records)
	log.Debug().
		Int("received", len(records)).
		Int("valid", validCount).
		Int("distinct", len(deduped)).
		Msg("bulk import batch deduplicated")

	rows := make([]repository.ProductImportRow, len(deduped))
	for i, rec := range deduped {
		rows[i] = repository.ProductImportRow{
			Name:       strings.TrimSpace(rec.Name),
			Category:   rec.Category,
			BaseCost:   rec.BaseCost,
			Size:       rec.Size,
			Weight:     rec.Weight,
			Width:      rec.Width,
			Height:     rec.Height,
			Length:     rec.Length,
			Source:     rec.Source,
			ProductSKU: rec.ProductSKU,
			Parent:     rec.Parent,
		}
	}

	totalChunks := (len(rows) + s.chunkSize - 1) / s.chunkSize
	for i := 0; i < len(rows); i += s.chunkSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		end := i + s.chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		chunkNo := i/s.chunkSize + 1

		created, updated, err := s.productRepo.UpsertBatch(rows[i:end])
		if err != nil {
			log.Error().Err(err).
				Int("chunk", chunkNo).
				Int("total_chunks", totalChunks).
				Msg("bulk import chunk failed")
			return result, fmt.Errorf("import chunk %d of %d failed: %w", chunkNo, totalChunks, err)
		}
		result.Added += created
		result.Updated += updated
	}

	log.Info().
		Int("added", result.Added).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Msg("bulk import completed")
	return result, nil
}

// ImportFromS3 fetches a CSV feed object and runs it through the same import
// pipeline. Rows that fail to parse are counted as skipped.
func (s *ImportService) ImportFromS3(ctx context.Context, bucket, key string) (*ImportResult, error) {
	if s.feeds == nil {
		return nil, fmt.Errorf("no feed bucket configured")
	}

	body, err := s.feeds.Fetch(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %q: %w", key, err)
	}
	defer body.Close()

	records, parseSkipped, err := parseFeedCSV(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %q: %w", key, err)
	}

	result, err := s.BulkImport(ctx, records)
	result.Skipped += parseSkipped
	return result, err
}
