package auth

import (
	"errors"
	"net/http"
	"strings"

	"foodgram/backend/internal/config"
	"foodgram/backend/internal/database"
	"foodgram/backend/internal/models"
	"foodgram/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	ctxUserID    = "userID"
	ctxRole      = "role"
	ctxTokenID   = "tokenID"
	ctxTokenExp  = "tokenExpiresAt"
	schemeBearer = "bearer"
	schemeToken  = "token"
)

// OptionalAuthMiddleware inspects for a token and sets the userID if present and valid,
// but does not fail if the token is missing or invalid.
// Both "Bearer <jwt>" and "Token <jwt>" headers are accepted.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := tokenFromHeader(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		claims, err := jwt.ParseToken(config.AppConfig.JWTSecret, tokenString)
		if err != nil {
			c.Next()
			return
		}

		db := database.DB.WithContext(c.Request.Context())
		var revoked int64
		if err := db.Model(&models.RevokedToken{}).Where("jti = ?", claims.TokenID).Count(&revoked).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if revoked > 0 {
			c.Next()
			return
		}

		var user models.User
		if err := db.Select("id", "role").First(&user, claims.UserID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			c.Next()
			return
		}

		c.Set(ctxUserID, user.ID)
		c.Set(ctxRole, user.Role)
		c.Set(ctxTokenID, claims.TokenID)
		c.Set(ctxTokenExp, claims.ExpiresAt)
		c.Next()
	}
}

// AuthMiddleware rejects anonymous requests. It must be used AFTER OptionalAuthMiddleware.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication credentials were not provided"})
			return
		}
		c.Next()
	}
}

// AdminMiddleware creates a gin middleware to check for admin role.
// It must be used AFTER the standard AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsPrivileged(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

func tokenFromHeader(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", false
	}
	switch strings.ToLower(scheme) {
	case schemeBearer, schemeToken:
	default:
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
