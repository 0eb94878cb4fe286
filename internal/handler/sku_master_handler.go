package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sellermetrics/catalog_api/internal/service"
	"github.com/sellermetrics/catalog_api/internal/utils"
)

// SkuMasterHandler handles sku_master listing, missing-SKU ingestion, and
// channel synchronization endpoints.
type SkuMasterHandler struct {
	skuMasterService *service.SkuMasterService
	syncService      *service.SyncService
}

// NewSkuMasterHandler constructs a SkuMasterHandler.
func NewSkuMasterHandler(skuMasterService *service.SkuMasterService, syncService *service.SyncService) *SkuMasterHandler {
	return &SkuMasterHandler{skuMasterService: skuMasterService, syncService: syncService}
}

// ListRecords handles GET /v1/admin/sku-master
func (h *SkuMasterHandler) ListRecords(c *gin.Context) {
	page, limit := 1, 50
	if v := c.Query("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			page = p
		}
	}
	if v := c.Query("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil {
			limit = l
		}
	}

	records, total, err := h.skuMasterService.ListRecords(c.Query("marketplace"), c.Query("search"), page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve records")
		return
	}
	utils.SuccessWithPagination(c, 200, "Records retrieved", records, page, limit, total)
}

type missingSKURequest struct {
	SKUs []service.MissingSKUEntry `json:"skus" binding:"required"`
}

// IngestMissing handles POST /v1/admin/sku-master/missing
func (h *SkuMasterHandler) IngestMissing(c *gin.Context) {
	var req missingSKURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result, err := h.skuMasterService.IngestMissing(req.SKUs)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to ingest missing SKUs")
		return
	}
	utils.Success(c, 200, "Missing SKUs processed", result)
}

// SyncChannel handles POST /v1/admin/sku-master/sync/:channel
func (h *SkuMasterHandler) SyncChannel(c *gin.Context) {
	channel := c.Param("channel")

	result, err := h.syncService.SyncChannel(c.Request.Context(), channel)
	if err != nil {
		if err == utils.ErrMarketplaceNotFound {
			utils.Error(c, 404, "NOT_FOUND", "Unknown channel")
			return
		}
		utils.Error(c, 500, "SYNC_FAILED", err.Error())
		return
	}
	utils.Success(c, 200, result.Summary, result)
}

// GetSyncStatus handles GET /v1/admin/sku-master/sync/:channel
func (h *SkuMasterHandler) GetSyncStatus(c *gin.Context) {
	channel := c.Param("channel")

	summary, err := h.syncService.LastSummary(c.Request.Context(), channel)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to read sync status")
		return
	}
	if summary == nil {
		utils.Error(c, 404, "NOT_FOUND", "No sync recorded for this channel")
		return
	}
	utils.Success(c, 200, "Sync status retrieved", summary)
}
