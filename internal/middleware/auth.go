package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoicer/internal/service"
)

const (
	ContextKeyShop   = "shop"
	ContextKeyClaims = "claims"
)

// AuthMiddleware validates the bearer token and injects the token's shop.
func AuthMiddleware(tokens service.TokenService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing or invalid authorization header"},
			})
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			log.Debug("token rejected",
				zap.String("request_id", GetRequestID(c)),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "invalid or expired token"},
			})
			return
		}

		c.Set(ContextKeyShop, service.NormalizeShop(claims.Shop))
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireShopAccess rejects requests whose :shop differs from the token's shop.
func RequireShopAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetShop(c) == "" || GetShop(c) != service.NormalizeShop(c.Param("shop")) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   gin.H{"code": "FORBIDDEN", "message": "token is not valid for this shop"},
			})
			return
		}
		c.Next()
	}
}

// GetShop returns the authenticated shop, or "" when the request carries none.
func GetShop(c *gin.Context) string {
	val, exists := c.Get(ContextKeyShop)
	if !exists {
		return ""
	}
	shop, _ := val.(string)
	return shop
}
