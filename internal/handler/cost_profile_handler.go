package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sellermetrics/catalog_api/internal/repository"
	"github.com/sellermetrics/catalog_api/internal/utils"
)

// CostProfileHandler exposes read-only access to cost profiles. Profiles are
// maintained by the finance pipeline, not through this API.
type CostProfileHandler struct {
	costProfileRepo *repository.CostProfileRepository
}

func NewCostProfileHandler(costProfileRepo *repository.CostProfileRepository) *CostProfileHandler {
	return &CostProfileHandler{costProfileRepo: costProfileRepo}
}

// ListCostProfiles handles GET /v1/admin/cost-profiles
func (h *CostProfileHandler) ListCostProfiles(c *gin.Context) {
	profiles, err := h.costProfileRepo.GetAll()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve cost profiles")
		return
	}
	utils.Success(c, 200, "Cost profiles retrieved", profiles)
}

// GetCostProfile handles GET /v1/admin/cost-profiles/:id
func (h *CostProfileHandler) GetCostProfile(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid cost profile id")
		return
	}

	profile, err := h.costProfileRepo.GetByID(id)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve cost profile")
		return
	}
	if profile == nil {
		utils.Error(c, 404, "NOT_FOUND", "Cost profile not found")
		return
	}
	utils.Success(c, 200, "Cost profile retrieved", profile)
}
