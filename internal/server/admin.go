package server

import (
	"net/http"

	"coinpay/internal/api"
	"coinpay/internal/auth"
	"coinpay/internal/config"
	"coinpay/internal/logger"

	"github.com/gin-gonic/gin"
)

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin exchanges the operator credentials for a JWT. Credentials
// live in the environment, not in the database; there is exactly one
// operator account.
func AdminLogin(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AdminLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "username and password are required"})
			return
		}

		if cfg.AdminPasswordHash == "" {
			logger.Error("admin login attempted but ADMIN_PASSWORD_HASH is not configured")
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "admin login is not configured"})
			return
		}

		if req.Username != cfg.AdminUsername || !auth.CheckPassword(cfg.AdminPasswordHash, req.Password) {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid credentials"})
			return
		}

		token, err := auth.GenerateToken(req.Username, "admin", cfg.JWTSecret)
		if err != nil {
			logger.Errorf("Failed to generate admin token: %v", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to generate token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}
