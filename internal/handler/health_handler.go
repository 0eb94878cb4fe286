package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/sellermetrics/catalog_api/internal/cache"
	"github.com/sellermetrics/catalog_api/internal/utils"
)

// HealthHandler reports service liveness and dependency status.
type HealthHandler struct {
	db    *sqlx.DB
	redis *cache.RedisClient
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *sqlx.DB, redis *cache.RedisClient) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// Check handles GET /v1/health
func (h *HealthHandler) Check(c *gin.Context) {
	status := gin.H{
		"database": "ok",
		"redis":    "ok",
	}
	healthy := true

	if err := h.db.Ping(); err != nil {
		status["database"] = "unreachable"
		healthy = false
	}
	if h.redis == nil {
		status["redis"] = "disabled"
	} else if err := h.redis.Ping(c.Request.Context()); err != nil {
		status["redis"] = "unreachable"
		healthy = false
	}

	if !healthy {
		utils.Error(c, 503, "UNHEALTHY", "One or more dependencies are unreachable")
		return
	}
	utils.Success(c, 200, "Service healthy", status)
}
