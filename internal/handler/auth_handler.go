package handler

import (
	"net/http"

	"foodgram/backend/internal/apperr"
	"foodgram/backend/internal/auth"
	"foodgram/backend/internal/config"
	"foodgram/backend/internal/database"
	"foodgram/backend/internal/store"
	"foodgram/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// LoginInput defines the structure for user login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email" example:"cook@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// TokenResponse carries a freshly issued token.
type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

var errBadCredentials = apperr.Validation("", "Unable to log in with provided credentials.")

// Login godoc
// @Summary      Obtain a token
// @Description  Authenticates by email and password and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Credentials"
// @Success      200  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse "Invalid credentials"
// @Router       /auth/token/login [post]
func Login(c *gin.Context) {
	var input LoginInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := store.GetUserByEmail(c.Request.Context(), database.DB, input.Email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			err = errBadCredentials
		}
		respondError(c, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		respondError(c, errBadCredentials)
		return
	}

	token, _, err := jwt.GenerateToken(config.AppConfig.JWTSecret, user.ID, config.AppConfig.TokenTTL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{AuthToken: token})
}

// Logout godoc
// @Summary      Revoke the current token
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/token/logout [post]
func Logout(c *gin.Context) {
	if err := auth.RevokeCurrentToken(c.Request.Context(), database.DB, c); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
