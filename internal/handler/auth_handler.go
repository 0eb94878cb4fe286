package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sellermetrics/catalog_api/internal/middleware"
	"github.com/sellermetrics/catalog_api/internal/service"
	"github.com/sellermetrics/catalog_api/internal/utils"
)

// AuthHandler handles admin authentication endpoints.
type AuthHandler struct {
	authService *service.AdminAuthService
	limiter     *middleware.InvalidAuthRateLimiter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AdminAuthService, limiter *middleware.InvalidAuthRateLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, limiter: limiter}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /v1/admin/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	if h.limiter != nil && h.limiter.IsBlocked(c.ClientIP()) {
		utils.Error(c, 429, "TOO_MANY_ATTEMPTS", "Too many failed login attempts, try again later")
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Email and password are required")
		return
	}

	token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if h.limiter != nil {
			h.limiter.RecordFailure(c.ClientIP())
		}
		utils.Error(c, 401, "UNAUTHORIZED", err.Error())
		return
	}

	if h.limiter != nil {
		h.limiter.Reset(c.ClientIP())
	}
	utils.Success(c, 200, "Login successful", gin.H{"token": token})
}
