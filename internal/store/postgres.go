// Package store holds connections to the platform's shared services. Robot
// configuration never reads from them; they only back readiness reporting.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekazari/nkz-module-robotics/internal/config"
	"go.uber.org/zap"
)

// Postgres wraps a pgx connection pool to the shared database.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres creates a pool for cfg.URL. Connections are opened lazily, so a
// database that is down at startup does not prevent the service from starting.
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(NormalizeDatabaseURL(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConnections)
	}
	poolCfg.MinConns = int32(cfg.MinConnections)
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &Postgres{
		pool:   pool,
		logger: logger,
	}, nil
}

// NormalizeDatabaseURL strips a driver suffix from the scheme, turning
// "postgresql+asyncpg://..." into "postgresql://...".
func NormalizeDatabaseURL(url string) string {
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		return url
	}
	if base, _, found := strings.Cut(scheme, "+"); found {
		return base + "://" + rest
	}
	return url
}

// Name identifies the check in readiness output.
func (p *Postgres) Name() string {
	return "database"
}

// Check pings the database.
func (p *Postgres) Check(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Close closes the pool.
func (p *Postgres) Close() {
	p.pool.Close()
}
