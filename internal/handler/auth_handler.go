package handler

import (
	"net/http"

	"gameshelf/backend/internal/config"
	"gameshelf/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// LoginAdmin godoc
// @Summary      Admin login
// @Description  Exchanges the configured admin credentials for a bearer token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Credentials"
// @Success      200 {object} DataResponse{data=TokenResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse "Invalid credentials"
// @Router       /auth/login [post]
func LoginAdmin(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error(), "Invalid login payload", nil)
		return
	}

	cfg := config.AppConfig
	if input.Username != cfg.AdminUsername ||
		bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte(input.Password)) != nil {
		respondError(c, http.StatusUnauthorized, CodeUnauthorized, "invalid credentials", "Invalid username or password", nil)
		return
	}

	token, err := jwt.GenerateToken(input.Username)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, err.Error(), "Failed to issue token", nil)
		return
	}

	respondData(c, http.StatusOK, TokenResponse{Token: token}, nil)
}
