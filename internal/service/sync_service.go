package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sellermetrics/catalog_api/internal/cache"
	"github.com/sellermetrics/catalog_api/internal/repository"
	"github.com/sellermetrics/catalog_api/internal/utils"
)

// SyncService converges the derived sku_master table with the current state
// of products and marketplace_product_data, one channel at a time.
type SyncService struct {
	marketplaceRepo *repository.MarketplaceRepository
	skuMasterRepo   *repository.SkuMasterRepository
	syncCache       *cache.SyncCache
}

// NewSyncService constructs a SyncService. syncCache may be nil; summaries
// are then not cached.
func NewSyncService(marketplaceRepo *repository.MarketplaceRepository, skuMasterRepo *repository.SkuMasterRepository, syncCache *cache.SyncCache) *SyncService {
	return &SyncService{
		marketplaceRepo: marketplaceRepo,
		skuMasterRepo:   skuMasterRepo,
		syncCache:       syncCache,
	}
}

// SyncResult is the outcome of one channel synchronization run.
type SyncResult struct {
	Channel  string `json:"channel"`
	Updated  int64  `json:"updated"`
	Inserted int64  `json:"inserted"`
	Total    int    `json:"total"`
	WithCost int    `json:"withCost"`
	WithSize int    `json:"withSize"`
	Summary  string `json:"summary"`
}

// SyncChannel runs the two-phase reconciliation for one channel: phase A
// refreshes every sku_master row that matches a mapping+product pair, phase
// B inserts rows for pairs not yet represented. The phases must run in this
// order; backfilling first would insert rows the refresh then misses.
// Running it again with no intervening catalog change refreshes the same
// values and inserts nothing.
func (s *SyncService) SyncChannel(ctx context.Context, channel string) (*SyncResult, error) {
	m, err := s.marketplaceRepo.GetByCode(channel)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, utils.ErrMarketplaceNotFound
	}

	start := time.Now()
	log.Info().Str("channel", channel).Msg("starting channel sync")

	updated, err := s.skuMasterRepo.RefreshFromCatalog(channel)
	if err != nil {
		return nil, fmt.Errorf("refresh phase failed: %w", err)
	}

	inserted, err := s.skuMasterRepo.BackfillMissing(channel)
	if err != nil {
		return nil, fmt.Errorf("backfill phase failed: %w", err)
	}

	stats, err := s.skuMasterRepo.Stats(channel)
	if err != nil {
		return nil, fmt.Errorf("stats query failed: %w", err)
	}

	result := &SyncResult{
		Channel:  channel,
		Updated:  updated,
		Inserted: inserted,
		Total:    stats.Total,
		WithCost: stats.WithCost,
		WithSize: stats.WithSize,
	}
	result.Summary = fmt.Sprintf(
		"channel %s: %d refreshed, %d inserted, %d total (%d with cost, %d with size)",
		channel, updated, inserted, stats.Total, stats.WithCost, stats.WithSize,
	)

	log.Info().
		Str("channel", channel).
		Int64("updated", updated).
		Int64("inserted", inserted).
		Int("total", stats.Total).
		Dur("duration", time.Since(start)).
		Msg("channel sync completed")

	if s.syncCache != nil {
		summary := &cache.SyncSummary{
			Channel:    channel,
			Updated:    updated,
			Inserted:   inserted,
			Total:      stats.Total,
			WithCost:   stats.WithCost,
			WithSize:   stats.WithSize,
			Summary:    result.Summary,
			FinishedAt: time.Now().UTC(),
		}
		if err := s.syncCache.SetSummary(ctx, summary); err != nil {
			log.Warn().Err(err).Str("channel", channel).Msg("failed to cache sync summary")
		}
	}

	return result, nil
}

// LastSummary returns the cached summary of the most recent sync for a
// channel, or nil when none is cached.
func (s *SyncService) LastSummary(ctx context.Context, channel string) (*cache.SyncSummary, error) {
	if s.syncCache == nil {
		return nil, nil
	}
	return s.syncCache.GetSummary(ctx, channel)
}
