package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"invoicer/internal/config"
	"invoicer/internal/domain"
)

const shopAudience = "shop-api"

// ShopClaims are the JWT claims of a shop API token.
type ShopClaims struct {
	jwt.RegisteredClaims
	Shop string `json:"shop"`
}

// TokenService issues and validates shop-scoped API tokens.
type TokenService interface {
	IssueToken(shop string, ttl time.Duration) (token string, expiresAt time.Time, err error)
	ValidateToken(token string) (*ShopClaims, error)
}

type tokenService struct {
	cfg config.JWTConfig
	now func() time.Time
}

// NewTokenService creates a new TokenService.
func NewTokenService(cfg config.JWTConfig) TokenService {
	return &tokenService{cfg: cfg, now: time.Now}
}

// NormalizeShop lower-cases and trims a shop domain for comparison.
func NormalizeShop(shop string) string {
	return strings.ToLower(strings.TrimSpace(shop))
}

func (s *tokenService) IssueToken(shop string, ttl time.Duration) (string, time.Time, error) {
	shop = NormalizeShop(shop)
	if shop == "" {
		return "", time.Time{}, domain.ErrShopRequired
	}
	if ttl <= 0 {
		ttl = s.cfg.TokenExpiry
	}
	now := s.now()
	expiresAt := now.Add(ttl)

	claims := &ShopClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   shop,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{shopAudience},
		},
		Shop: shop,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing shop token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *tokenService) ValidateToken(tokenString string) (*ShopClaims, error) {
	claims := &ShopClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithAudience(shopAudience),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w: %w", domain.ErrUnauthorized, err)
	}
	if !token.Valid || NormalizeShop(claims.Shop) == "" {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
