package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sellermetrics/catalog_api/internal/repository"
	"github.com/sellermetrics/catalog_api/internal/service"
)

// ChannelSyncWorker periodically refreshes sku_master for all sync-enabled
// marketplaces.
type ChannelSyncWorker struct {
	marketplaceRepo *repository.MarketplaceRepository
	syncService     *service.SyncService
	interval        time.Duration
}

// NewChannelSyncWorker constructs a ChannelSyncWorker.
func NewChannelSyncWorker(
	marketplaceRepo *repository.MarketplaceRepository,
	syncService *service.SyncService,
	interval time.Duration,
) *ChannelSyncWorker {
	return &ChannelSyncWorker{
		marketplaceRepo: marketplaceRepo,
		syncService:     syncService,
		interval:        interval,
	}
}

// Start begins the periodic sync loop and listens for context cancellation.
func (w *ChannelSyncWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting channel sync worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Channel sync worker stopped")
			return
		}
	}
}

func (w *ChannelSyncWorker) run(ctx context.Context) {
	log.Info().Msg("Starting channel sync...")

	marketplaces, err := w.marketplaceRepo.GetAll(true)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get marketplaces")
		return
	}

	for _, m := range marketplaces {
		result, err := w.syncService.SyncChannel(ctx, m.Code)
		if err != nil {
			log.Error().Err(err).Str("channel", m.Code).Msg("Channel sync failed")
			continue
		}
		log.Info().
			Str("channel", m.Code).
			Int64("updated", result.Updated).
			Int64("inserted", result.Inserted).
			Int("total", result.Total).
			Msg("Channel synced")
	}

	log.Info().Msg("Channel sync completed")
}
