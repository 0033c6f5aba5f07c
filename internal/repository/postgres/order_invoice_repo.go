package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"invoicer/internal/domain"
	"invoicer/internal/port"
)

type orderInvoiceRepo struct {
	db *sqlx.DB
}

// NewOrderInvoiceRepo creates a new PostgreSQL-backed OrderInvoiceRepository.
func NewOrderInvoiceRepo(db *sqlx.DB) port.OrderInvoiceRepository {
	return &orderInvoiceRepo{db: db}
}

func (r *orderInvoiceRepo) Enqueue(ctx context.Context, shop, orderName string, payload json.RawMessage) (*domain.OrderInvoice, error) {
	now := time.Now().UTC()
	var rec domain.OrderInvoice
	err := r.db.GetContext(ctx, &rec,
		`INSERT INTO order_invoices (
			id, shop, order_name, status, payload, attempts, last_error, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, 0, '', $6, $6)
		ON CONFLICT (shop, order_name) DO UPDATE SET
			status = EXCLUDED.status,
			payload = EXCLUDED.payload,
			attempts = 0,
			last_error = '',
			updated_at = EXCLUDED.updated_at
		RETURNING *`,
		uuid.New(), shop, orderName, domain.InvoiceStatusQueued, payload, now)
	if err != nil {
		return nil, fmt.Errorf("orderInvoiceRepo.Enqueue: %w", err)
	}
	return &rec, nil
}

func (r *orderInvoiceRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.OrderInvoice, error) {
	if limit <= 0 {
		return nil, nil
	}
	var recs []domain.OrderInvoice
	err := r.db.SelectContext(ctx, &recs,
		`UPDATE order_invoices SET
			status = $1,
			attempts = attempts + 1,
			updated_at = NOW()
		WHERE id IN (
			SELECT id FROM order_invoices
			WHERE status = $2
			ORDER BY created_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING *`,
		domain.InvoiceStatusProcessing, domain.InvoiceStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("orderInvoiceRepo.ClaimQueued: %w", err)
	}
	return recs, nil
}

// MarkGenerated upserts so that invoices generated inline, which were never
// enqueued, still get a record.
func (r *orderInvoiceRepo) MarkGenerated(ctx context.Context, shop, orderName, s3Key string, at time.Time, auditWarnings int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO order_invoices (
			id, shop, order_name, status, payload, s3_key,
			invoice_generated, invoice_generated_at, audit_warnings, created_at, updated_at
		) VALUES ($1, $2, $3, $4, '{}', $5, TRUE, $6, $7, $8, $8)
		ON CONFLICT (shop, order_name) DO UPDATE SET
			status = EXCLUDED.status,
			s3_key = EXCLUDED.s3_key,
			invoice_generated = TRUE,
			invoice_generated_at = EXCLUDED.invoice_generated_at,
			audit_warnings = EXCLUDED.audit_warnings,
			last_error = '',
			updated_at = EXCLUDED.updated_at`,
		uuid.New(), shop, orderName, domain.InvoiceStatusGenerated, s3Key, at.UTC(), auditWarnings, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("orderInvoiceRepo.MarkGenerated: %w", err)
	}
	return nil
}

func (r *orderInvoiceRepo) MarkFailed(ctx context.Context, id uuid.UUID, lastError string, maxAttempts int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE order_invoices SET
			status = CASE WHEN attempts >= $3 THEN $4 ELSE $5 END,
			last_error = $2,
			updated_at = $6
		WHERE id = $1`,
		id, lastError, maxAttempts, domain.InvoiceStatusFailed, domain.InvoiceStatusQueued, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("orderInvoiceRepo.MarkFailed: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("orderInvoiceRepo.MarkFailed rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *orderInvoiceRepo) GetByOrder(ctx context.Context, shop, orderName string) (*domain.OrderInvoice, error) {
	var rec domain.OrderInvoice
	err := r.db.GetContext(ctx, &rec,
		"SELECT * FROM order_invoices WHERE shop = $1 AND order_name = $2", shop, orderName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("orderInvoiceRepo.GetByOrder: %w", err)
	}
	return &rec, nil
}

func (r *orderInvoiceRepo) ListByShop(ctx context.Context, shop string, offset, limit int) ([]domain.OrderInvoice, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM order_invoices WHERE shop = $1", shop)
	if err != nil {
		return nil, 0, fmt.Errorf("orderInvoiceRepo.ListByShop count: %w", err)
	}

	var recs []domain.OrderInvoice
	err = r.db.SelectContext(ctx, &recs,
		`SELECT * FROM order_invoices WHERE shop = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		shop, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("orderInvoiceRepo.ListByShop: %w", err)
	}
	return recs, total, nil
}
