package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"invoicer/internal/port"
)

type hsnRepo struct {
	db *sqlx.DB
}

// NewHSNRepo creates a new PostgreSQL-backed HSNRepository.
func NewHSNRepo(db *sqlx.DB) port.HSNRepository {
	return &hsnRepo{db: db}
}

func (r *hsnRepo) LoadAll(ctx context.Context) ([]port.HSNEntry, error) {
	var entries []port.HSNEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT code, description, gst_rate FROM hsn_codes ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("hsnRepo.LoadAll: %w", err)
	}
	return entries, nil
}

// Upsert writes entries in one transaction and returns how many were written.
func (r *hsnRepo) Upsert(ctx context.Context, entries []port.HSNEntry) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("hsnRepo.Upsert begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PreparexContext(ctx,
		`INSERT INTO hsn_codes (code, description, gst_rate, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (code) DO UPDATE SET
			description = EXCLUDED.description,
			gst_rate = EXCLUDED.gst_rate,
			updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return 0, fmt.Errorf("hsnRepo.Upsert prepare: %w", err)
	}
	defer stmt.Close()

	n := 0
	for i := range entries {
		e := &entries[i]
		if _, err := stmt.ExecContext(ctx, e.Code, e.Description, e.GSTRate); err != nil {
			return n, fmt.Errorf("hsnRepo.Upsert %s: %w", e.Code, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("hsnRepo.Upsert commit: %w", err)
	}
	return n, nil
}
