package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoicer/internal/shopify"
)

// maxWebhookBody caps the webhook payload read into memory.
const maxWebhookBody = 5 << 20

// ShopifyHMAC verifies X-Shopify-Hmac-Sha256 against the raw body. With an
// empty secret verification is disabled. The body is restored for the handler.
func ShopifyHMAC(secret string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   gin.H{"code": "INVALID_REQUEST", "message": "could not read request body"},
			})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if !shopify.VerifyHMAC(body, c.GetHeader(shopify.HeaderHmac), secret) {
			log.Warn("webhook signature rejected",
				zap.String("shop", c.GetHeader(shopify.HeaderShopDomain)),
				zap.String("request_id", GetRequestID(c)),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "INVALID_SIGNATURE", "message": "invalid webhook signature"},
			})
			return
		}
		c.Next()
	}
}
