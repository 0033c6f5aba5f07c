package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"invoicer/internal/domain"
	"invoicer/internal/port"
)

type templateConfigRepo struct {
	db *sqlx.DB
}

// NewTemplateConfigRepo creates a new PostgreSQL-backed TemplateConfigRepository.
func NewTemplateConfigRepo(db *sqlx.DB) port.TemplateConfigRepository {
	return &templateConfigRepo{db: db}
}

func (r *templateConfigRepo) GetShop(ctx context.Context, shop string) (*domain.Shop, error) {
	var s domain.Shop
	err := r.db.GetContext(ctx, &s, "SELECT * FROM shops WHERE shop = $1", shop)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("templateConfigRepo.GetShop: %w", err)
	}
	return &s, nil
}

func (r *templateConfigRepo) GetShopTemplate(ctx context.Context, shop, templateID string) (*domain.ShopTemplate, error) {
	var st domain.ShopTemplate
	err := r.db.GetContext(ctx, &st,
		"SELECT * FROM template_configurations WHERE shop = $1 AND template_id = $2", shop, templateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("templateConfigRepo.GetShopTemplate: %w", err)
	}
	return &st, nil
}

func (r *templateConfigRepo) GetTemplate(ctx context.Context, templateID string) (*domain.Template, error) {
	var t domain.Template
	err := r.db.GetContext(ctx, &t, "SELECT * FROM templates WHERE template_id = $1", templateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("templateConfigRepo.GetTemplate: %w", err)
	}
	return &t, nil
}

// UpsertShopTemplate stores the override and selects it as the shop's template.
func (r *templateConfigRepo) UpsertShopTemplate(ctx context.Context, st *domain.ShopTemplate) error {
	now := time.Now().UTC()
	st.UpdatedAt = now
	if st.CreatedAt.IsZero() {
		st.CreatedAt = now
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("templateConfigRepo.UpsertShopTemplate begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO shops (shop, template_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $3)
		 ON CONFLICT (shop) DO UPDATE SET template_id = EXCLUDED.template_id, updated_at = EXCLUDED.updated_at`,
		st.Shop, st.TemplateID, now)
	if err != nil {
		return fmt.Errorf("templateConfigRepo.UpsertShopTemplate shop: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO template_configurations (shop, template_id, styling, company, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (shop, template_id) DO UPDATE SET
			styling = EXCLUDED.styling,
			company = EXCLUDED.company,
			updated_at = EXCLUDED.updated_at`,
		st.Shop, st.TemplateID, st.Styling, st.Company, st.CreatedAt, st.UpdatedAt)
	if err != nil {
		return fmt.Errorf("templateConfigRepo.UpsertShopTemplate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("templateConfigRepo.UpsertShopTemplate commit: %w", err)
	}
	return nil
}
