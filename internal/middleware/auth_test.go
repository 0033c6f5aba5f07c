package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"invoicer/internal/config"
	"invoicer/internal/middleware"
	"invoicer/internal/service"
)

func authRouter(tokens service.TokenService) *gin.Engine {
	r := gin.New()
	g := r.Group("/shops/:shop", middleware.AuthMiddleware(tokens, zap.NewNop()), middleware.RequireShopAccess())
	g.GET("/template", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetShop(c))
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tokens := service.NewTokenService(config.JWTConfig{Secret: "mw-secret", TokenExpiry: time.Hour, Issuer: "invoicer"})
	r := authRouter(tokens)

	own, _, err := tokens.IssueToken("pg.myshopify.com", 0)
	require.NoError(t, err)
	other, _, err := tokens.IssueToken("other.myshopify.com", 0)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		auth   string
		status int
		body   string
	}{
		{"missing header", "/shops/pg.myshopify.com/template", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"not bearer", "/shops/pg.myshopify.com/template", "Basic abc", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"invalid token", "/shops/pg.myshopify.com/template", "Bearer nope", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"other shop", "/shops/pg.myshopify.com/template", "Bearer " + other, http.StatusForbidden, "FORBIDDEN"},
		{"own shop", "/shops/pg.myshopify.com/template", "Bearer " + own, http.StatusOK, "pg.myshopify.com"},
		{"own shop different case", "/shops/PG.MyShopify.com/template", "Bearer " + own, http.StatusOK, "pg.myshopify.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tt.path, http.NoBody)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestGetShop_Empty(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "", middleware.GetShop(c))
}
