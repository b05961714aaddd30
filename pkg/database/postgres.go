package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zhenwei/fundlens/pkg/config"
)

// DB wraps the pgxpool.Pool and provides additional functionality
// ⭐ SSOT: 数据库连接只在这个包创建
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool
func New(cfg *config.Config) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Ping checks if the database is accessible
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// EnsureSchema creates the tables used by the store layer if they do
// not exist yet. Safe to call on every startup.
func (db *DB) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS user_holdings (
			fund_code    TEXT PRIMARY KEY,
			fund_name    TEXT NOT NULL,
			shares       DOUBLE PRECISION NOT NULL,
			cost_price   DOUBLE PRECISION NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS favorites (
			fund_code  TEXT PRIMARY KEY,
			fund_name  TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id         BIGSERIAL PRIMARY KEY,
			fund_code  TEXT NOT NULL,
			type       TEXT NOT NULL,
			shares     DOUBLE PRECISION NOT NULL,
			price      DOUBLE PRECISION NOT NULL,
			amount     DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_fund_code ON transactions (fund_code)`,
		`CREATE TABLE IF NOT EXISTS fund_holdings (
			fund_code  TEXT NOT NULL,
			quarter    TEXT NOT NULL,
			stock_code TEXT NOT NULL,
			stock_name TEXT NOT NULL,
			weight     DOUBLE PRECISION NOT NULL,
			rank       INT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (fund_code, quarter, stock_code)
		)`,
		`CREATE TABLE IF NOT EXISTS fund_sector_map (
			fund_code    TEXT PRIMARY KEY,
			sector_code  TEXT NOT NULL,
			sector_name  TEXT NOT NULL,
			confidence   DOUBLE PRECISION NOT NULL,
			match_reason TEXT NOT NULL DEFAULT '',
			derived_from TEXT NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema failed: %w", err)
		}
	}

	return nil
}

// HealthCheck returns detailed health information about the database
func (db *DB) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	status := &HealthStatus{
		Healthy:   false,
		Timestamp: time.Now(),
	}

	start := time.Now()
	if err := db.Pool.Ping(ctx); err != nil {
		status.Error = err.Error()
		return status, err
	}
	status.ResponseTime = time.Since(start)

	stats := db.Pool.Stat()
	status.Stats = PoolStats{
		TotalConns:    stats.TotalConns(),
		IdleConns:     stats.IdleConns(),
		AcquiredConns: stats.AcquiredConns(),
		MaxConns:      stats.MaxConns(),
	}

	status.Healthy = true
	return status, nil
}

// HealthStatus represents database health information
type HealthStatus struct {
	Healthy      bool          `json:"healthy"`
	Timestamp    time.Time     `json:"timestamp"`
	ResponseTime time.Duration `json:"response_time"`
	Stats        PoolStats     `json:"stats"`
	Error        string        `json:"error,omitempty"`
}

// PoolStats represents connection pool statistics
type PoolStats struct {
	TotalConns    int32 `json:"total_conns"`
	IdleConns     int32 `json:"idle_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	MaxConns      int32 `json:"max_conns"`
}
