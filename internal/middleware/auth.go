package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"qrdine-system/internal/database/models"
	"qrdine-system/internal/tenant"
	"qrdine-system/internal/utils"
)

const TenantContextKey = "tenantContext"

// JWTAuth validates the bearer token and its backing session row, then
// attaches the tenant context for downstream handlers. A deleted session row
// revokes the token regardless of its JWT expiry.
func JWTAuth(db *gorm.DB, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Access token required",
			})
			return
		}
		token := parts[1]

		claims, err := utils.ParseToken(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid token",
			})
			return
		}

		var session models.Session
		if err := db.Where("token = ?", token).First(&session).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid or expired session",
			})
			return
		}

		if session.ExpiresAt.Before(time.Now()) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Session expired",
			})
			return
		}

		c.Set(TenantContextKey, tenant.Context{
			RestaurantID: claims.RestaurantID,
			Token:        token,
		})
		c.Next()
	}
}

// TenantFrom returns the tenant context attached by JWTAuth.
func TenantFrom(c *gin.Context) (tenant.Context, bool) {
	v, ok := c.Get(TenantContextKey)
	if !ok {
		return tenant.Context{}, false
	}
	tc, ok := v.(tenant.Context)
	return tc, ok
}
