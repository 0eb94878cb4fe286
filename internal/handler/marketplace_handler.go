package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sellermetrics/catalog_api/internal/models"
	"github.com/sellermetrics/catalog_api/internal/repository"
	"github.com/sellermetrics/catalog_api/internal/service"
	"github.com/sellermetrics/catalog_api/internal/utils"
)

// MarketplaceHandler handles marketplace and listing HTTP endpoints.
type MarketplaceHandler struct {
	marketplaceRepo *repository.MarketplaceRepository
	listingService  *service.ListingService
}

// NewMarketplaceHandler constructs a MarketplaceHandler.
func NewMarketplaceHandler(marketplaceRepo *repository.MarketplaceRepository, listingService *service.ListingService) *MarketplaceHandler {
	return &MarketplaceHandler{marketplaceRepo: marketplaceRepo, listingService: listingService}
}

// ListMarketplaces handles GET /v1/admin/marketplaces
func (h *MarketplaceHandler) ListMarketplaces(c *gin.Context) {
	marketplaces, err := h.marketplaceRepo.GetAll(false)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve marketplaces")
		return
	}
	utils.Success(c, 200, "Marketplaces retrieved", marketplaces)
}

type marketplaceRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	CountryCode string `json:"countryCode"`
	SyncEnabled bool   `json:"syncEnabled"`
}

// CreateMarketplace handles POST /v1/admin/marketplaces
func (h *MarketplaceHandler) CreateMarketplace(c *gin.Context) {
	var req marketplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	existing, err := h.marketplaceRepo.GetByCode(req.Code)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create marketplace")
		return
	}
	if existing != nil {
		utils.Error(c, 400, "DUPLICATE_CODE", "a marketplace with this code already exists")
		return
	}

	m := &models.Marketplace{
		Code:        req.Code,
		Name:        req.Name,
		CountryCode: req.CountryCode,
		SyncEnabled: req.SyncEnabled,
	}
	if err := h.marketplaceRepo.Create(m); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create marketplace")
		return
	}
	utils.Success(c, 201, "Marketplace created", m)
}

// UpdateMarketplace handles PUT /v1/admin/marketplaces/:id
func (h *MarketplaceHandler) UpdateMarketplace(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid marketplace id")
		return
	}

	var req marketplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	m, err := h.marketplaceRepo.GetByID(id)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update marketplace")
		return
	}
	if m == nil {
		utils.Error(c, 404, "NOT_FOUND", "Marketplace not found")
		return
	}

	m.Code = req.Code
	m.Name = req.Name
	m.CountryCode = req.CountryCode
	m.SyncEnabled = req.SyncEnabled
	if err := h.marketplaceRepo.Update(m); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update marketplace")
		return
	}
	utils.Success(c, 200, "Marketplace updated", m)
}

type listingBulkRequest struct {
	SKUs []service.ListingEntry `json:"skus" binding:"required"`
}

// BulkUpsertListings handles POST /v1/admin/marketplaces/:id/listings
func (h *MarketplaceHandler) BulkUpsertListings(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid marketplace id")
		return
	}

	var req listingBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result, err := h.listingService.BulkUpsert(id, req.SKUs)
	if err != nil {
		if err == utils.ErrMarketplaceNotFound {
			utils.Error(c, 404, "NOT_FOUND", "Marketplace not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to apply listings")
		return
	}
	utils.Success(c, 200, "Listings applied", result)
}

// UpdateListing handles PUT /v1/admin/listings/:id
func (h *MarketplaceHandler) UpdateListing(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid listing id")
		return
	}

	var entry service.ListingEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	listing, err := h.listingService.UpdateListing(id, entry)
	if err != nil {
		if err == utils.ErrListingNotFound {
			utils.Error(c, 404, "NOT_FOUND", "Listing not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update listing")
		return
	}
	utils.Success(c, 200, "Listing updated", listing)
}

// DeleteListing handles DELETE /v1/admin/listings/:id
func (h *MarketplaceHandler) DeleteListing(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid listing id")
		return
	}

	if err := h.listingService.DeleteListing(id); err != nil {
		if err == utils.ErrListingNotFound {
			utils.Error(c, 404, "NOT_FOUND", "Listing not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete listing")
		return
	}
	utils.Success(c, 200, "Listing deleted", nil)
}
