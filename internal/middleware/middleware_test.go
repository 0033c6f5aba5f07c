package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"invoicer/internal/middleware"
	"invoicer/internal/shopify"
)

func TestRequestID_Generated(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	var seen string
	r.GET("/test", func(c *gin.Context) {
		seen = middleware.GetRequestID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
}

func TestRequestID_Propagated(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("X-Request-ID", "req-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Recovery(zap.NewNop()), middleware.Logger(zap.NewNop()))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/panic", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestRateLimiter(t *testing.T) {
	rl := middleware.NewRateLimiter(0.001, 2, zap.NewNop())
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(shop string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
		if shop != "" {
			req.Header.Set(shopify.HeaderShopDomain, shop)
		}
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do("a.myshopify.com").Code)
	assert.Equal(t, http.StatusOK, do("a.myshopify.com").Code)

	w := do("a.myshopify.com")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")

	// Buckets are per client.
	assert.Equal(t, http.StatusOK, do("b.myshopify.com").Code)
}

func hmacRouter(secret string) (*gin.Engine, *string) {
	var got string
	r := gin.New()
	r.POST("/hook", middleware.ShopifyHMAC(secret, zap.NewNop()), func(c *gin.Context) {
		b, _ := io.ReadAll(c.Request.Body)
		got = string(b)
		c.Status(http.StatusOK)
	})
	return r, &got
}

func TestShopifyHMAC(t *testing.T) {
	const secret = "shpss_test"
	body := `{"name":"#PG1229","line_items":[]}`

	t.Run("valid signature passes body through", func(t *testing.T) {
		r, got := hmacRouter(secret)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/hook", strings.NewReader(body))
		req.Header.Set(shopify.HeaderHmac, shopify.Sign([]byte(body), secret))
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, body, *got)
	})

	t.Run("tampered body rejected", func(t *testing.T) {
		r, got := hmacRouter(secret)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/hook", strings.NewReader(body+" "))
		req.Header.Set(shopify.HeaderHmac, shopify.Sign([]byte(body), secret))
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_SIGNATURE")
		assert.Empty(t, *got)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		r, _ := hmacRouter(secret)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/hook", strings.NewReader(body))
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("no secret disables verification", func(t *testing.T) {
		r, got := hmacRouter("")
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/hook", strings.NewReader(body))
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, body, *got)
	})
}
