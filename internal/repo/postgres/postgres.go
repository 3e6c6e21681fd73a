package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig — пул реестра тенантов. Реестр читается при создании консьюмера
// и на проверку тенанта, поэтому пул маленький и держит тёплые соединения.
type PoolConfig struct {
	DSN             string
	MaxConns        int32
	ApplicationName string // видно в pg_stat_activity
}

const (
	defaultApplicationName = "command-router"
	defaultMinConns        = 1
	connLifetime           = 30 * time.Minute
	connIdleTime           = 5 * time.Minute
	healthCheckPeriod      = 30 * time.Second
)

func poolConfig(pc PoolConfig) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(pc.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse registry dsn: %w", err)
	}
	if pc.MaxConns > 0 {
		cfg.MaxConns = pc.MaxConns
	}
	if cfg.MinConns < defaultMinConns && cfg.MaxConns >= defaultMinConns {
		cfg.MinConns = defaultMinConns
	}

	cfg.MaxConnLifetime = connLifetime
	cfg.MaxConnIdleTime = connIdleTime
	cfg.HealthCheckPeriod = healthCheckPeriod

	app := pc.ApplicationName
	if app == "" {
		app = defaultApplicationName
	}
	cfg.ConnConfig.RuntimeParams["application_name"] = app
	return cfg, nil
}

// NewPool — пул к реестру тенантов; Ping сразу, чтобы старт падал на недоступной БД.
func NewPool(ctx context.Context, pc PoolConfig) (*pgxpool.Pool, error) {
	cfg, err := poolConfig(pc)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open registry pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping registry: %w", err)
	}
	return pool, nil
}
