package postgres

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"invoicer/internal/config"
)

const (
	// connectTimeout bounds the startup ping. Lambda cold starts must not
	// hang on an unreachable database.
	connectTimeout  = 5 * time.Second
	connMaxIdleTime = 5 * time.Minute
)

// NewDB opens the PostgreSQL pool used for invoice records and templates and
// verifies it with a bounded ping.
func NewDB(ctx context.Context, cfg *config.DBConfig, log *zap.Logger) (*sqlx.DB, error) {
	log = log.Named("postgres")
	log.Info("opening connection pool",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Name),
		zap.String("sslmode", cfg.SSLMode),
		zap.Int("max_open", cfg.MaxOpen),
		zap.Int("max_idle", cfg.MaxIdle),
	)

	db, err := sqlx.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres.NewDB: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres.NewDB: ping %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return db, nil
}
