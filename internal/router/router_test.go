package router_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"invoicer/internal/config"
	"invoicer/internal/domain"
	"invoicer/internal/handler"
	"invoicer/internal/router"
	"invoicer/internal/service"
	"invoicer/internal/shopify"
	"invoicer/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const secret = "shpss_router"

var jwtCfg = config.JWTConfig{Secret: "router-jwt", TokenExpiry: time.Hour, Issuer: "invoicer"}

func bearer(t *testing.T, shop string) string {
	t.Helper()
	token, _, err := service.NewTokenService(jwtCfg).IssueToken(shop, 0)
	require.NoError(t, err)
	return "Bearer " + token
}

func setup(t *testing.T, rl config.RateLimitConfig) (*gin.Engine, *mocks.MockInvoiceService) {
	r, svc, _ := setupWithTemplates(t, rl)
	return r, svc
}

func setupWithTemplates(t *testing.T, rl config.RateLimitConfig) (*gin.Engine, *mocks.MockInvoiceService, *mocks.MockTemplateService) {
	t.Helper()
	svc := new(mocks.MockInvoiceService)
	tpl := new(mocks.MockTemplateService)
	cfg := &config.Config{
		CORS:      config.CORSConfig{AllowedOrigins: []string{"https://admin.example.com"}},
		RateLimit: rl,
		Shopify:   config.ShopifyConfig{WebhookSecret: secret},
	}
	log := zap.NewNop()
	r := router.Setup(cfg, log,
		handler.NewWebhookHandler(svc, "", false, log),
		handler.NewInvoiceHandler(svc, ""),
		handler.NewShopHandler(svc, tpl),
		handler.NewHealthHandler(nil),
		service.NewTokenService(jwtCfg),
	)
	return r, svc, tpl
}

func TestRouter_Health(t *testing.T) {
	r, _ := setup(t, config.RateLimitConfig{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_WebhookRequiresSignature(t *testing.T) {
	r, svc := setup(t, config.RateLimitConfig{})
	body := `{"name":"#PG1229","line_items":[{"title":"Tee","price":"100","quantity":1}]}`

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/webhooks/shopify/orders", strings.NewReader(body))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)

	svc.On("Process", mock.Anything, mock.Anything).Return(&domain.InvoiceResult{OrderNumber: "#PG1229"}, nil)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/webhooks/shopify/orders", strings.NewReader(body))
	req.Header.Set(shopify.HeaderHmac, shopify.Sign([]byte(body), secret))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestRouter_ShopRoutes(t *testing.T) {
	r, svc := setup(t, config.RateLimitConfig{})
	svc.On("GetInvoice", mock.Anything, "pg.myshopify.com", "PG1").Return(nil, domain.ErrNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/shops/pg.myshopify.com/invoices/PG1", http.NoBody)
	req.Header.Set("Authorization", bearer(t, "PG.myshopify.com"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertExpectations(t)
}

func TestRouter_AdminRequiresToken(t *testing.T) {
	r, svc, tpl := setupWithTemplates(t, config.RateLimitConfig{})
	body := `{"company":{"ownerEmail":"someone@example.test"}}`

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		status int
	}{
		{"template update without token", http.MethodPut, "/api/v1/shops/victim.myshopify.com/template", "", http.StatusUnauthorized},
		{"malformed header", http.MethodPut, "/api/v1/shops/victim.myshopify.com/template", "Token abc", http.StatusUnauthorized},
		{"garbage token", http.MethodPut, "/api/v1/shops/victim.myshopify.com/template", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"token for another shop", http.MethodPut, "/api/v1/shops/victim.myshopify.com/template", bearer(t, "other.myshopify.com"), http.StatusForbidden},
		{"invoice download for another shop", http.MethodGet, "/api/v1/shops/victim.myshopify.com/invoices/PG1", bearer(t, "other.myshopify.com"), http.StatusForbidden},
		{"preview without token", http.MethodPost, "/api/v1/invoices/preview", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(tt.method, tt.path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	tpl.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "GetInvoice", mock.Anything, mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "Preview", mock.Anything, mock.Anything)
}

func TestRouter_TemplateUpdateWithShopToken(t *testing.T) {
	r, _, tpl := setupWithTemplates(t, config.RateLimitConfig{})
	tpl.On("Update", mock.Anything, "pg.myshopify.com", mock.Anything).
		Return(&domain.ShopTemplate{Shop: "pg.myshopify.com", TemplateID: "minimalist"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/api/v1/shops/pg.myshopify.com/template",
		strings.NewReader(`{"company":{"ownerEmail":"owner@pg.example"}}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, "pg.myshopify.com"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	tpl.AssertExpectations(t)
}

func TestRouter_RateLimited(t *testing.T) {
	r, _ := setup(t, config.RateLimitConfig{RPS: 0.001, Burst: 1})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/webhooks/shopify/orders", strings.NewReader(`{}`))
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusTooManyRequests}, codes)

	// Health checks are never limited.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
