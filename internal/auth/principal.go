package auth

import (
	"context"
	"time"

	"foodgram/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CurrentUserID returns the authenticated user, if any.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// ViewerID is CurrentUserID with 0 for anonymous requests.
func ViewerID(c *gin.Context) uint {
	id, _ := CurrentUserID(c)
	return id
}

func IsAuthenticated(c *gin.Context) bool {
	_, ok := CurrentUserID(c)
	return ok
}

// IsPrivileged reports whether the authenticated user is an admin.
func IsPrivileged(c *gin.Context) bool {
	return IsAuthenticated(c) && c.GetString(ctxRole) == models.RoleAdmin
}

// RevokeCurrentToken adds the request's token to the denylist.
func RevokeCurrentToken(ctx context.Context, db *gorm.DB, c *gin.Context) error {
	jti := c.GetString(ctxTokenID)
	if jti == "" {
		return nil
	}
	expiresAt := c.GetTime(ctxTokenExp)
	return Revoke(ctx, db, jti, expiresAt)
}

// Revoke marks a token id as logged out. Revoking twice is a no-op.
func Revoke(ctx context.Context, db *gorm.DB, jti string, expiresAt time.Time) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.RevokedToken{JTI: jti, ExpiresAt: expiresAt}).Error
}

// PurgeExpired drops denylist rows whose tokens can no longer be presented.
func PurgeExpired(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	result := db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.RevokedToken{})
	return result.RowsAffected, result.Error
}
